package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gtd-review/internal/model"
)

// ReviewRepository stores completed-review records. Rows are insert-only.
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListRecent returns the most recently completed reviews, newest first.
func (r *ReviewRepository) ListRecent(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = 30
	}
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Order("completed_at DESC").
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListRecentByType returns the most recent reviews of one type, newest first.
func (r *ReviewRepository) ListRecentByType(ctx context.Context, reviewType model.ReviewType, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = 90
	}
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Where("type = ?", reviewType).
		Order("completed_at DESC").
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
