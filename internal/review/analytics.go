package review

import (
	"math"
	"sort"
	"time"

	"gtd-review/internal/model"
)

// milestones is the fixed ladder of streak targets.
var milestones = []int{7, 14, 30, 60, 90, 180, 365}

// Streak counts consecutive calendar days with at least one daily review,
// walking backward from today and stopping at the first gap. Multiple
// reviews on one day count once.
func Streak(reviews []model.Review, today time.Time) int {
	days := make(map[string]bool)
	for _, review := range reviews {
		if review.Type != model.ReviewTypeDaily {
			continue
		}
		days[review.CompletedAt.In(today.Location()).Format("2006-01-02")] = true
	}

	streak := 0
	for day := startOfDay(today); days[day.Format("2006-01-02")]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// CompletionRate sums daily reviews over the most recent `days` metrics rows
// and divides by the requested window length, not the rows present, so a
// sparse history reads as a low rate. Returned as a percentage capped at 100.
func CompletionRate(metrics []model.ReviewMetrics, days int) int {
	if days <= 0 {
		return 0
	}
	rows := metrics
	if len(rows) > days {
		rows = rows[:days]
	}
	completed := 0
	for _, row := range rows {
		completed += row.DailyReviewsCompleted
	}
	rate := int(math.Round(float64(completed) / float64(days) * 100))
	if rate > 100 {
		rate = 100
	}
	return rate
}

// SystemHealth scores the overall state of the system 0..100 from the weekly
// insights: streak against a 7-day target, completion pace against 5 tasks a
// day, and whether any project moved. Without insights it reads neutral.
func SystemHealth(insights *WeeklyInsights) int {
	if insights == nil {
		return 50
	}
	streakScore := math.Min(float64(insights.StreakDays)/7, 1) * 100
	paceScore := math.Min(insights.AvgTasksPerDay/5, 1) * 100
	projectScore := 50.0
	if insights.ProjectsProgressed > 0 {
		projectScore = 100
	}
	return int(math.Round((streakScore + paceScore + projectScore) / 3))
}

// NextMilestone returns the smallest milestone strictly greater than the
// streak, or streak+30 past the ladder's end.
func NextMilestone(streak int) int {
	for _, m := range milestones {
		if m > streak {
			return m
		}
	}
	return streak + 30
}

// ReviewPatterns describes habits read out of the review history.
type ReviewPatterns struct {
	BestDay       time.Weekday `json:"best_day"`
	PreferredHour int          `json:"preferred_hour"`
	// ConsistencyScore is reviews per distinct calendar day in the observed
	// span, as a percentage capped at 100.
	ConsistencyScore int `json:"consistency_score"`
	TotalReviews     int `json:"total_reviews"`
}

// AnalyzePatterns buckets the history by weekday and completion hour and
// measures how evenly reviews cover the observed span.
func AnalyzePatterns(reviews []model.Review) ReviewPatterns {
	patterns := ReviewPatterns{TotalReviews: len(reviews)}
	if len(reviews) == 0 {
		return patterns
	}

	byWeekday := make(map[time.Weekday]int)
	byHour := make(map[int]int)
	days := make(map[string]bool)
	first, last := reviews[0].CompletedAt, reviews[0].CompletedAt
	for _, review := range reviews {
		byWeekday[review.CompletedAt.Weekday()]++
		byHour[review.CompletedAt.Hour()]++
		days[review.CompletedAt.Format("2006-01-02")] = true
		if review.CompletedAt.Before(first) {
			first = review.CompletedAt
		}
		if review.CompletedAt.After(last) {
			last = review.CompletedAt
		}
	}

	patterns.BestDay = maxKey(byWeekday, func(a, b time.Weekday) bool { return a < b })
	patterns.PreferredHour = maxKey(byHour, func(a, b int) bool { return a < b })

	span := int(startOfDay(last).Sub(startOfDay(first)).Hours()/24) + 1
	score := int(math.Round(float64(len(days)) / float64(span) * 100))
	if score > 100 {
		score = 100
	}
	patterns.ConsistencyScore = score
	return patterns
}

// maxKey returns the key with the highest count; ties break toward the
// smaller key so the result is deterministic.
func maxKey[K comparable](counts map[K]int, less func(a, b K) bool) K {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	var best K
	bestCount := -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
