package model

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_tags_user_name" json:"name"`
	Color     string    `gorm:"size:7" json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Tasks []Task `gorm:"many2many:task_tags" json:"-"`

	// Populated by ListWithCounts, not a stored column.
	TaskCount int `gorm:"->;-:migration" json:"task_count"`
}
