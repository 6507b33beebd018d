package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"gtd-review/internal/model"
	"gtd-review/internal/repository"
	"gtd-review/internal/review"
)

// ReminderService builds the daily review nudge sent to the user.
type ReminderService struct {
	loader  *review.Loader
	reviews *repository.ReviewRepository
}

func NewReminderService(loader *review.Loader, reviews *repository.ReviewRepository) *ReminderService {
	return &ReminderService{loader: loader, reviews: reviews}
}

// DailyNudge assembles the reminder text for the given moment. It is empty
// when today's daily review is already done, so callers can skip sending.
func (s *ReminderService) DailyNudge(ctx context.Context, now time.Time) (string, error) {
	history, err := s.reviews.ListRecentByType(ctx, model.ReviewTypeDaily, 90)
	if err != nil {
		return "", err
	}

	today := now.Format("2006-01-02")
	for _, r := range history {
		if r.CompletedAt.In(now.Location()).Format("2006-01-02") == today {
			return "", nil
		}
	}

	data, err := s.loader.LoadDaily(ctx, now)
	if err != nil {
		return "", err
	}

	streak := review.Streak(history, now)

	var builder strings.Builder
	builder.WriteString("🌅 <b>Daily review time</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, 02 Jan 2006")))

	if len(data.OverdueTasks) > 0 {
		builder.WriteString(fmt.Sprintf("⚠️ <b>%d overdue</b>\n", len(data.OverdueTasks)))
		for _, task := range topTasks(data.OverdueTasks, 3) {
			builder.WriteString(fmt.Sprintf("   • %s\n", html.EscapeString(strings.TrimSpace(task.Title))))
		}
	}
	if len(data.TodaysTasks) > 0 {
		builder.WriteString(fmt.Sprintf("⏳ %d due today\n", len(data.TodaysTasks)))
	}
	if len(data.WaitingFor) > 0 {
		builder.WriteString(fmt.Sprintf("📨 %d waiting for others\n", len(data.WaitingFor)))
	}

	builder.WriteString("\n")
	switch {
	case streak > 0:
		builder.WriteString(fmt.Sprintf("🔥 Streak: <b>%d day(s)</b>. Next milestone: %d.\n", streak, review.NextMilestone(streak)))
	default:
		builder.WriteString("✨ No streak yet. Today is a good day to start one.\n")
	}

	return strings.TrimSpace(builder.String()), nil
}

func topTasks(tasks []model.Task, n int) []model.Task {
	if len(tasks) <= n {
		return tasks
	}
	return tasks[:n]
}
