package repository

import (
	"context"
	"testing"
	"time"
)

func TestIncrementCreatesRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetricsRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	if err := repo.Increment(ctx, day, MetricsDelta{DailyReviews: 1, InboxProcessed: 4}); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	row, err := repo.FindByDate(ctx, day)
	if err != nil {
		t.Fatalf("FindByDate failed: %v", err)
	}
	if row == nil {
		t.Fatalf("expected a row for the day")
	}
	if row.DailyReviewsCompleted != 1 || row.InboxItemsProcessed != 4 {
		t.Fatalf("unexpected counters: %+v", row)
	}
	// The row is keyed by the calendar date, not the instant.
	if !row.Date.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected midnight-truncated date, got %v", row.Date)
	}
}

func TestIncrementUpsertsExistingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetricsRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	if err := repo.Increment(ctx, day, MetricsDelta{DailyReviews: 1}); err != nil {
		t.Fatalf("first Increment failed: %v", err)
	}
	// Same calendar day, different time of day.
	if err := repo.Increment(ctx, day.Add(10*time.Hour), MetricsDelta{DailyReviews: 1, TasksCompleted: 3}); err != nil {
		t.Fatalf("second Increment failed: %v", err)
	}

	row, err := repo.FindByDate(ctx, day)
	if err != nil {
		t.Fatalf("FindByDate failed: %v", err)
	}
	if row.DailyReviewsCompleted != 2 {
		t.Fatalf("expected 2 daily reviews, got %d", row.DailyReviewsCompleted)
	}
	if row.TasksCompleted != 3 {
		t.Fatalf("expected 3 tasks completed, got %d", row.TasksCompleted)
	}

	rows, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected a single row for the day, got %d", len(rows))
	}
}

func TestFindByDateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetricsRepository(db)

	row, err := repo.FindByDate(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("FindByDate failed: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil for missing date, got %+v", row)
	}
}

func TestListRecentOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetricsRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := repo.Increment(ctx, base.AddDate(0, 0, i), MetricsDelta{DailyReviews: 1}); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}

	rows, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if !rows[0].Date.After(rows[1].Date) || !rows[1].Date.After(rows[2].Date) {
		t.Fatalf("expected newest-first ordering: %v", rows)
	}
}
