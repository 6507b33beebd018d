package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReviewType distinguishes the two review cadences.
type ReviewType string

const (
	ReviewTypeDaily  ReviewType = "daily"
	ReviewTypeWeekly ReviewType = "weekly"
)

// SessionStatus is the lifecycle state of a review session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// StepKind identifies one step of a review checklist.
type StepKind string

const (
	StepWelcome          StepKind = "welcome"
	StepCalendarCheck    StepKind = "calendar_check"
	StepTaskTriage       StepKind = "task_triage"
	StepWaitingForReview StepKind = "waiting_for_review"
	StepPlanning         StepKind = "planning"
	StepReflection       StepKind = "reflection"
	StepInboxZero        StepKind = "inbox_zero"
	StepMindSweep        StepKind = "mind_sweep"
	StepNextActionsScan  StepKind = "next_actions_scan"
	StepProjectsReview   StepKind = "projects_review"
	StepSomedayReview    StepKind = "someday_review"
	StepCalendarAhead    StepKind = "calendar_ahead"
)

// StepPayload is the typed outcome of one completed review step. Kind names
// the step it belongs to; the remaining fields are optional and which ones a
// step fills depends on the kind.
type StepPayload struct {
	Kind            StepKind `json:"kind"`
	TasksReviewed   []uint   `json:"tasks_reviewed,omitempty"`
	TasksCompleted  []uint   `json:"tasks_completed,omitempty"`
	InboxProcessed  int      `json:"inbox_processed,omitempty"`
	ProjectsTouched []uint   `json:"projects_touched,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// ReviewSession is a single in-flight review attempt. CompletedSteps and
// SessionData are stored as JSON text columns; use the accessor methods
// rather than touching the raw strings.
type ReviewSession struct {
	ID             string        `gorm:"primaryKey" json:"id"`
	Type           ReviewType    `json:"type"`
	Status         SessionStatus `gorm:"index" json:"status"`
	CurrentStep    int           `json:"current_step"`
	TotalSteps     int           `json:"total_steps"`
	CompletedSteps string        `json:"-"`
	SessionData    string        `json:"-"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
	// Version guards concurrent updates; every write must carry the version
	// it read.
	Version int `json:"version"`
}

// MarshalJSON exposes the completed steps and per-step payloads in decoded
// form instead of the raw text columns.
func (s ReviewSession) MarshalJSON() ([]byte, error) {
	steps := s.Steps()
	if steps == nil {
		steps = []StepKind{}
	}
	type alias ReviewSession
	return json.Marshal(struct {
		alias
		CompletedSteps []StepKind               `json:"completed_steps"`
		SessionData    map[StepKind]StepPayload `json:"session_data"`
	}{alias(s), steps, s.Data()})
}

// Open reports whether the session still accepts step completions.
func (s *ReviewSession) Open() bool {
	return s.Status == SessionStatusActive || s.Status == SessionStatusPaused
}

// Steps decodes the ordered list of completed step kinds.
func (s *ReviewSession) Steps() []StepKind {
	if s.CompletedSteps == "" {
		return nil
	}
	var steps []StepKind
	if err := json.Unmarshal([]byte(s.CompletedSteps), &steps); err != nil {
		return nil
	}
	return steps
}

// SetSteps encodes the completed step list.
func (s *ReviewSession) SetSteps(steps []StepKind) error {
	raw, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	s.CompletedSteps = string(raw)
	return nil
}

// Data decodes the per-step payload map.
func (s *ReviewSession) Data() map[StepKind]StepPayload {
	if s.SessionData == "" {
		return map[StepKind]StepPayload{}
	}
	data := make(map[StepKind]StepPayload)
	if err := json.Unmarshal([]byte(s.SessionData), &data); err != nil {
		return map[StepKind]StepPayload{}
	}
	return data
}

// SetData encodes the per-step payload map.
func (s *ReviewSession) SetData(data map[StepKind]StepPayload) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}
	s.SessionData = string(raw)
	return nil
}

// Review is the immutable record written when a session completes.
type Review struct {
	ID               string     `gorm:"primaryKey" json:"id"`
	Type             ReviewType `gorm:"index" json:"type"`
	CompletedAt      time.Time  `gorm:"index" json:"completed_at"`
	Notes            string     `json:"notes,omitempty"`
	DurationMinutes  int        `json:"duration_minutes"`
	TasksReviewed    int        `json:"tasks_reviewed"`
	ProjectsReviewed int        `json:"projects_reviewed"`
	ProgressData     string     `json:"progress_data,omitempty"` // JSON snapshot of session data
}

// ReviewMetrics aggregates per-day counters, one row per calendar date.
type ReviewMetrics struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Date                   time.Time `gorm:"uniqueIndex" json:"date"`
	DailyReviewsCompleted  int       `json:"daily_reviews_completed"`
	WeeklyReviewsCompleted int       `json:"weekly_reviews_completed"`
	TasksCompleted         int       `json:"tasks_completed"`
	TasksCreated           int       `json:"tasks_created"`
	ProjectsUpdated        int       `json:"projects_updated"`
	InboxItemsProcessed    int       `json:"inbox_items_processed"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
