package review

import (
	"sort"
	"sync"

	"gtd-review/internal/model"
)

// PromptPriority orders coaching prompts; higher shows first.
type PromptPriority int

const (
	PriorityLow PromptPriority = iota
	PriorityMedium
	PriorityHigh
)

// PromptCondition gates a prompt on the current review data.
type PromptCondition string

const (
	CondHasOverdueTasks    PromptCondition = "has_overdue_tasks"
	CondLargeInbox         PromptCondition = "large_inbox"
	CondHasStalledProjects PromptCondition = "has_stalled_projects"
)

// largeInboxThreshold is how many captured items make the inbox "large".
const largeInboxThreshold = 10

// Prompt is one piece of contextual review guidance.
type Prompt struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Priority  PromptPriority  `json:"priority"`
	Condition PromptCondition `json:"condition,omitempty"`
}

// promptKey addresses the static table: a review type plus either a step
// kind or the empty kind for type-wide prompts.
type promptKey struct {
	reviewType model.ReviewType
	step       model.StepKind
}

var promptTable = map[promptKey][]Prompt{
	{model.ReviewTypeDaily, model.StepWelcome}: {
		{ID: "daily_welcome_intent", Text: "Take a breath. What would make today feel like a win?", Priority: PriorityMedium},
	},
	{model.ReviewTypeDaily, model.StepCalendarCheck}: {
		{ID: "daily_calendar_hard_edges", Text: "Check today's hard edges first: appointments shape the space the tasks fit into.", Priority: PriorityHigh},
	},
	{model.ReviewTypeDaily, model.StepTaskTriage}: {
		{ID: "daily_triage_overdue", Text: "Overdue items first: reschedule or drop them deliberately instead of carrying the guilt.", Priority: PriorityHigh, Condition: CondHasOverdueTasks},
		{ID: "daily_triage_three", Text: "Pick at most three must-do tasks. Everything else is a bonus.", Priority: PriorityMedium},
	},
	{model.ReviewTypeDaily, model.StepWaitingForReview}: {
		{ID: "daily_waiting_nudge", Text: "Anything here older than a week probably needs a follow-up nudge today.", Priority: PriorityMedium},
	},
	{model.ReviewTypeDaily, model.StepPlanning}: {
		{ID: "daily_planning_energy", Text: "Match hard tasks to your high-energy hours, admin to the dips.", Priority: PriorityMedium},
	},
	{model.ReviewTypeDaily, model.StepReflection}: {
		{ID: "daily_reflection_win", Text: "Name one thing that went well. Streaks are built on noticing.", Priority: PriorityLow},
	},
	{model.ReviewTypeDaily, ""}: {
		{ID: "daily_general_short", Text: "A daily review that takes five minutes and happens beats a thorough one that doesn't.", Priority: PriorityLow},
	},
	{model.ReviewTypeWeekly, model.StepMindSweep}: {
		{ID: "weekly_sweep_everything", Text: "Empty your head completely: if it takes attention, it goes in the inbox.", Priority: PriorityHigh},
	},
	{model.ReviewTypeWeekly, model.StepInboxZero}: {
		{ID: "weekly_inbox_large", Text: "Big inbox this week. Two-minute rule aggressively: do it, delegate it, or defer it.", Priority: PriorityHigh, Condition: CondLargeInbox},
		{ID: "weekly_inbox_decide", Text: "Clarify means deciding the very next physical action, not restating the problem.", Priority: PriorityMedium},
	},
	{model.ReviewTypeWeekly, model.StepProjectsReview}: {
		{ID: "weekly_projects_stalled", Text: "Some projects haven't moved in two weeks. Give each a next action or move it to someday.", Priority: PriorityHigh, Condition: CondHasStalledProjects},
		{ID: "weekly_projects_outcome", Text: "For each project, re-read the outcome. Is the next action really moving toward it?", Priority: PriorityMedium},
	},
	{model.ReviewTypeWeekly, model.StepSomedayReview}: {
		{ID: "weekly_someday_activate", Text: "Anything on someday/maybe that's become a now? Promote one, retire one.", Priority: PriorityLow},
	},
	{model.ReviewTypeWeekly, ""}: {
		{ID: "weekly_general_ritual", Text: "Same time, same place each week makes the review a ritual instead of a chore.", Priority: PriorityLow},
	},
}

// PromptData is the review-data slice conditions are evaluated against.
type PromptData struct {
	OverdueTasks    int
	InboxItems      int
	StalledProjects int
}

// PromptDataFromDaily extracts condition inputs from a daily snapshot.
func PromptDataFromDaily(data *DailyReviewData) PromptData {
	if data == nil {
		return PromptData{}
	}
	return PromptData{OverdueTasks: len(data.OverdueTasks)}
}

// PromptDataFromWeekly extracts condition inputs from a weekly snapshot.
func PromptDataFromWeekly(data *WeeklyReviewData) PromptData {
	if data == nil {
		return PromptData{}
	}
	return PromptData{
		InboxItems:      len(data.InboxItems),
		StalledProjects: len(data.StalledProjects),
	}
}

func (d PromptData) satisfies(condition PromptCondition) bool {
	switch condition {
	case "":
		return true
	case CondHasOverdueTasks:
		return d.OverdueTasks > 0
	case CondLargeInbox:
		return d.InboxItems >= largeInboxThreshold
	case CondHasStalledProjects:
		return d.StalledProjects > 0
	default:
		return false
	}
}

// Selector picks coaching prompts for a review step. Dismissals live only in
// the selector instance; resetting it forgets them.
type Selector struct {
	mu        sync.Mutex
	dismissed map[string]bool
}

func NewSelector() *Selector {
	return &Selector{dismissed: make(map[string]bool)}
}

// Dismiss hides a prompt for the rest of this selector's lifetime.
func (s *Selector) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed[id] = true
}

// Reset forgets all dismissals, typically when a new session starts.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = make(map[string]bool)
}

// Select returns the prompts for a step: step-specific plus type-general
// candidates, minus dismissed ones and those whose condition fails, sorted
// by priority (stable), trimmed to 1 in compact mode or 3 otherwise.
func (s *Selector) Select(reviewType model.ReviewType, step model.StepKind, data PromptData, compact bool) []Prompt {
	candidates := append([]Prompt{}, promptTable[promptKey{reviewType, step}]...)
	candidates = append(candidates, promptTable[promptKey{reviewType, ""}]...)

	s.mu.Lock()
	defer s.mu.Unlock()

	selected := candidates[:0]
	for _, prompt := range candidates {
		if s.dismissed[prompt.ID] {
			continue
		}
		if !data.satisfies(prompt.Condition) {
			continue
		}
		selected = append(selected, prompt)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Priority > selected[j].Priority
	})

	limit := 3
	if compact {
		limit = 1
	}
	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}
