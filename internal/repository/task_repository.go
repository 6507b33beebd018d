package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gtd-review/internal/model"
)

// TaskRepository exposes the read queries the review core needs. Task writes
// happen elsewhere in the application; this core only observes them.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByStatus returns tasks in any of the given statuses, newest first.
func (r *TaskRepository) ListByStatus(ctx context.Context, statuses ...model.TaskStatus) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("status IN ?", statuses).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDueOnOrBefore returns actionable tasks whose due date falls on or
// before the end of the given day.
func (r *TaskRepository) ListDueOnOrBefore(ctx context.Context, day time.Time, statuses ...model.TaskStatus) ([]model.Task, error) {
	end := endOfDay(day)
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date IS NOT NULL AND due_date <= ?", statuses, end).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListCompletedSince returns tasks completed at or after the given instant.
func (r *TaskRepository) ListCompletedSince(ctx context.Context, since time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("status = ? AND completed_at IS NOT NULL AND completed_at >= ?", model.TaskStatusCompleted, since).
		Order("completed_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListUpdatedSinceForProject returns tasks of one project touched at or after
// the given instant.
func (r *TaskRepository) ListUpdatedSinceForProject(ctx context.Context, projectID uint, since time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND updated_at >= ?", projectID, since).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountCreatedOn counts tasks captured on the given calendar day.
func (r *TaskRepository) CountCreatedOn(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("created_at >= ? AND created_at <= ?", startOfDay(day), endOfDay(day)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
