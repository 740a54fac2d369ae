package model

import (
	"time"

	"github.com/google/uuid"
)

// Task priority levels, ordered by severity.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:2000" json:"description"`
	Priority    string    `gorm:"size:10;not null;default:medium" json:"priority"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Tags []Tag `gorm:"many2many:task_tags" json:"tags"`
}

// PriorityRank maps a priority to its severity order (high > medium > low).
// Unknown values rank below low.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	return PriorityRank(p) > 0
}
