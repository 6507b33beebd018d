package model

import "time"

// TaskStatus tracks where an item sits in the GTD workflow.
type TaskStatus string

const (
	TaskStatusCaptured   TaskStatus = "captured"
	TaskStatusNextAction TaskStatus = "next_action"
	TaskStatusProject    TaskStatus = "project"
	TaskStatusWaitingFor TaskStatus = "waiting_for"
	TaskStatusSomeday    TaskStatus = "someday"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskContext is the GTD context tag: where the task can be done.
type TaskContext string

const (
	ContextCalls    TaskContext = "calls"
	ContextComputer TaskContext = "computer"
	ContextErrands  TaskContext = "errands"
	ContextHome     TaskContext = "home"
	ContextOffice   TaskContext = "office"
	ContextAnywhere TaskContext = "anywhere"
)

// EnergyLevel is the effort bucket a task demands.
type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

// DurationBucket is a rough time estimate for a task.
type DurationBucket string

const (
	DurationFiveMinutes    DurationBucket = "5min"
	DurationFifteenMinutes DurationBucket = "15min"
	DurationThirtyMinutes  DurationBucket = "30min"
	DurationOneHour        DurationBucket = "1hour"
	DurationHalfDay        DurationBucket = "half_day"
	DurationFullDay        DurationBucket = "full_day"
)

// Task represents a single captured item in the system.
type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      TaskStatus     `gorm:"index;default:captured" json:"status"`
	ProjectID   *uint          `gorm:"index" json:"project_id,omitempty"`
	Context     TaskContext    `json:"context,omitempty"`
	Energy      EnergyLevel    `json:"energy,omitempty"`
	Duration    DurationBucket `json:"duration,omitempty"`
	DueDate     *time.Time     `gorm:"index" json:"due_date,omitempty"`
	// Priority runs 1 (urgent) to 4 (low); zero means unset.
	Priority    int        `json:"priority,omitempty"`
	Tags        string     `json:"tags,omitempty"` // JSON-encoded string list
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `gorm:"index" json:"completed_at,omitempty"`
}
