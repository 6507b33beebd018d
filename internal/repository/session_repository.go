package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gtd-review/internal/model"
)

// SessionRepository persists review sessions. Creation is transactional so
// that at most one open (active or paused) session can exist, and updates are
// version-checked so a stale writer fails instead of clobbering.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session unless an open one already exists. The check
// and the insert run in one transaction.
func (r *SessionRepository) Create(ctx context.Context, session *model.ReviewSession) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ReviewSession{}).
			Where("status IN ?", []model.SessionStatus{model.SessionStatusActive, model.SessionStatusPaused}).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check open sessions: %w", err)
		}
		if count > 0 {
			return ErrSessionAlreadyOpen
		}
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
	return err
}

// FindByID loads one session.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*model.ReviewSession, error) {
	var session model.ReviewSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindOpen returns the active or paused session, or nil when none exists.
func (r *SessionRepository) FindOpen(ctx context.Context) (*model.ReviewSession, error) {
	var session model.ReviewSession
	err := r.db.WithContext(ctx).
		Where("status IN ?", []model.SessionStatus{model.SessionStatusActive, model.SessionStatusPaused}).
		Order("started_at DESC").
		First(&session).Error
	switch {
	case err == nil:
		return &session, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find open session: %w", err)
	}
}

// Update writes the session's mutable columns, guarded by the version the
// caller read. On success the in-memory Version is bumped to match the row.
func (r *SessionRepository) Update(ctx context.Context, session *model.ReviewSession, now time.Time) error {
	session.UpdatedAt = now
	result := r.db.WithContext(ctx).Model(&model.ReviewSession{}).
		Where("id = ? AND version = ?", session.ID, session.Version).
		Updates(map[string]interface{}{
			"status":          session.Status,
			"current_step":    session.CurrentStep,
			"completed_steps": session.CompletedSteps,
			"session_data":    session.SessionData,
			"completed_at":    session.CompletedAt,
			"updated_at":      session.UpdatedAt,
			"version":         session.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	session.Version++
	return nil
}
