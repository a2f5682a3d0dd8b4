package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a label projects can be filed under. Projects reference it by name only.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// DefaultCategories are seeded into an empty categories table.
var DefaultCategories = []string{
	"Web Application",
	"Bot & Automation",
	"Desktop Application",
	"Library",
	"Scripts",
}
