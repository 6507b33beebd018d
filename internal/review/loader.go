package review

import (
	"context"
	"sort"
	"sync"
	"time"

	"gtd-review/internal/model"
	"gtd-review/internal/repository"
)

// DailyReviewData is the task snapshot a daily review works through.
type DailyReviewData struct {
	TodaysTasks    []model.Task `json:"todays_tasks"`
	OverdueTasks   []model.Task `json:"overdue_tasks"`
	WaitingFor     []model.Task `json:"waiting_for"`
	CompletedToday []model.Task `json:"completed_today"` // since start of yesterday
	LoadedAt       time.Time    `json:"loaded_at"`
}

// ContextCount pairs a GTD context with how often it appeared.
type ContextCount struct {
	Context model.TaskContext `json:"context"`
	Count   int               `json:"count"`
}

// WeeklyInsights summarizes the past week, derived on demand and never
// persisted.
type WeeklyInsights struct {
	TasksCompleted     int            `json:"tasks_completed"`
	ProjectsProgressed int            `json:"projects_progressed"`
	ActiveProjects     int            `json:"active_projects"`
	AvgTasksPerDay     float64        `json:"avg_tasks_per_day"`
	TopContexts        []ContextCount `json:"top_contexts"`
	StreakDays         int            `json:"streak_days"`
}

// WeeklyReviewData is the snapshot a weekly review works through.
type WeeklyReviewData struct {
	InboxItems        []model.Task    `json:"inbox_items"`
	ActiveProjects    []model.Project `json:"active_projects"`
	StalledProjects   []model.Project `json:"stalled_projects"`
	SomedayItems      []model.Task    `json:"someday_items"`
	CompletedThisWeek []model.Task    `json:"completed_this_week"`
	Insights          WeeklyInsights  `json:"insights"`
	LoadedAt          time.Time       `json:"loaded_at"`
}

// stalledAfter is how long a project may go without any task activity before
// the weekly review flags it.
const stalledAfter = 14 * 24 * time.Hour

// Loader assembles the daily and weekly review snapshots from the store.
// The last good snapshot of each kind is cached; a failed reload keeps it.
type Loader struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	reviews  *repository.ReviewRepository

	mu     sync.Mutex
	daily  *DailyReviewData
	weekly *WeeklyReviewData
}

func NewLoader(tasks *repository.TaskRepository, projects *repository.ProjectRepository, reviews *repository.ReviewRepository) *Loader {
	return &Loader{tasks: tasks, projects: projects, reviews: reviews}
}

// Daily returns the cached daily snapshot, or nil before the first load.
func (l *Loader) Daily() *DailyReviewData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.daily
}

// Weekly returns the cached weekly snapshot, or nil before the first load.
func (l *Loader) Weekly() *WeeklyReviewData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.weekly
}

// LoadDaily queries the store and replaces the cached daily snapshot.
func (l *Loader) LoadDaily(ctx context.Context, now time.Time) (*DailyReviewData, error) {
	due, err := l.tasks.ListDueOnOrBefore(ctx, now, model.TaskStatusNextAction, model.TaskStatusWaitingFor)
	if err != nil {
		return nil, err
	}
	waiting, err := l.tasks.ListByStatus(ctx, model.TaskStatusWaitingFor)
	if err != nil {
		return nil, err
	}
	yesterday := startOfDay(now).AddDate(0, 0, -1)
	completed, err := l.tasks.ListCompletedSince(ctx, yesterday)
	if err != nil {
		return nil, err
	}

	data := &DailyReviewData{
		WaitingFor:     waiting,
		CompletedToday: completed,
		LoadedAt:       now,
	}
	today := startOfDay(now)
	for _, task := range due {
		if task.DueDate == nil {
			continue
		}
		if task.DueDate.Before(today) {
			data.OverdueTasks = append(data.OverdueTasks, task)
		} else {
			data.TodaysTasks = append(data.TodaysTasks, task)
		}
	}

	l.mu.Lock()
	l.daily = data
	l.mu.Unlock()
	return data, nil
}

// LoadWeekly queries the store, derives the week's insights and replaces the
// cached weekly snapshot.
func (l *Loader) LoadWeekly(ctx context.Context, now time.Time) (*WeeklyReviewData, error) {
	inbox, err := l.tasks.ListByStatus(ctx, model.TaskStatusCaptured)
	if err != nil {
		return nil, err
	}
	projects, err := l.projects.ListByStatus(ctx, model.ProjectStatusActive)
	if err != nil {
		return nil, err
	}
	someday, err := l.tasks.ListByStatus(ctx, model.TaskStatusSomeday)
	if err != nil {
		return nil, err
	}
	weekAgo := now.AddDate(0, 0, -7)
	completed, err := l.tasks.ListCompletedSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	var progressed int
	var stalled []model.Project
	for _, project := range projects {
		recent, err := l.tasks.ListUpdatedSinceForProject(ctx, project.ID, weekAgo)
		if err != nil {
			return nil, err
		}
		if len(recent) > 0 {
			progressed++
			continue
		}
		touched, err := l.tasks.ListUpdatedSinceForProject(ctx, project.ID, now.Add(-stalledAfter))
		if err != nil {
			return nil, err
		}
		if len(touched) == 0 {
			stalled = append(stalled, project)
		}
	}

	dailyReviews, err := l.reviews.ListRecentByType(ctx, model.ReviewTypeDaily, 0)
	if err != nil {
		return nil, err
	}

	data := &WeeklyReviewData{
		InboxItems:        inbox,
		ActiveProjects:    projects,
		StalledProjects:   stalled,
		SomedayItems:      someday,
		CompletedThisWeek: completed,
		Insights: WeeklyInsights{
			TasksCompleted:     len(completed),
			ProjectsProgressed: progressed,
			ActiveProjects:     len(projects),
			AvgTasksPerDay:     float64(len(completed)) / 7,
			TopContexts:        topContexts(completed),
			StreakDays:         Streak(dailyReviews, now),
		},
		LoadedAt: now,
	}

	l.mu.Lock()
	l.weekly = data
	l.mu.Unlock()
	return data, nil
}

// topContexts counts the context tags across tasks, most frequent first.
func topContexts(tasks []model.Task) []ContextCount {
	counts := make(map[model.TaskContext]int)
	for _, task := range tasks {
		if task.Context != "" {
			counts[task.Context]++
		}
	}
	result := make([]ContextCount, 0, len(counts))
	for context, count := range counts {
		result = append(result, ContextCount{Context: context, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Context < result[j].Context
	})
	if len(result) > 3 {
		result = result[:3]
	}
	return result
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
