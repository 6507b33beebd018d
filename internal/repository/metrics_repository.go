package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gtd-review/internal/model"
)

// MetricsDelta names the counters a single review completion adds to the
// day's metrics row.
type MetricsDelta struct {
	DailyReviews    int
	WeeklyReviews   int
	TasksCompleted  int
	ProjectsUpdated int
	InboxProcessed  int
}

// MetricsRepository upserts and reads the per-day counter rows.
type MetricsRepository struct {
	db *gorm.DB
}

func NewMetricsRepository(db *gorm.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Increment applies the delta to the row for the given calendar day, creating
// the row first if the day has none. Find-or-create and the increment run in
// one transaction.
func (r *MetricsRepository) Increment(ctx context.Context, day time.Time, delta MetricsDelta) error {
	date := startOfDay(day)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.ReviewMetrics
		err := tx.Where("date = ?", date).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = model.ReviewMetrics{Date: date}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create metrics row: %w", err)
			}
		case err != nil:
			return fmt.Errorf("find metrics row: %w", err)
		}

		updates := map[string]interface{}{
			"daily_reviews_completed":  gorm.Expr("daily_reviews_completed + ?", delta.DailyReviews),
			"weekly_reviews_completed": gorm.Expr("weekly_reviews_completed + ?", delta.WeeklyReviews),
			"tasks_completed":          gorm.Expr("tasks_completed + ?", delta.TasksCompleted),
			"projects_updated":         gorm.Expr("projects_updated + ?", delta.ProjectsUpdated),
			"inbox_items_processed":    gorm.Expr("inbox_items_processed + ?", delta.InboxProcessed),
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return fmt.Errorf("increment metrics: %w", err)
		}
		return nil
	})
}

// FindByDate returns the row for one calendar day, or nil when absent.
func (r *MetricsRepository) FindByDate(ctx context.Context, day time.Time) (*model.ReviewMetrics, error) {
	var row model.ReviewMetrics
	err := r.db.WithContext(ctx).Where("date = ?", startOfDay(day)).First(&row).Error
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find metrics: %w", err)
	}
}

// ListRecent returns up to `days` most recent rows, newest first.
func (r *MetricsRepository) ListRecent(ctx context.Context, days int) ([]model.ReviewMetrics, error) {
	if days <= 0 {
		days = 30
	}
	var rows []model.ReviewMetrics
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Limit(days).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
