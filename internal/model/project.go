package model

import "time"

// ProjectStatus marks whether a multi-step outcome is still being pursued.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusComplete ProjectStatus = "complete"
)

// Project is a named multi-step outcome owning tasks via Task.ProjectID.
type Project struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `json:"name"`
	Status    ProjectStatus `gorm:"index;default:active" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Tasks     []Task        `gorm:"foreignKey:ProjectID" json:"-"`
}
