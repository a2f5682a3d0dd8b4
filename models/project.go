package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project represents a portfolio entry shown in the gallery
type Project struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description string                      `json:"description" db:"description" gorm:"type:text;not null"`
	Year        int                         `json:"year" db:"year" gorm:"type:integer;not null;index:idx_projects_year"`
	Category    string                      `json:"category" db:"category" gorm:"type:text;not null;index:idx_projects_category"`
	TechStack   datatypes.JSONSlice[string] `json:"tech_stack" db:"tech_stack" gorm:"type:jsonb;not null;default:'[]'"`
	ImageURL    *string                     `json:"image_url" db:"image_url" gorm:"type:text"`
	GithubURL   *string                     `json:"github_url" db:"github_url" gorm:"type:text"`
	LiveURL     *string                     `json:"live_url" db:"live_url" gorm:"type:text"`
	CreatedAt   time.Time                   `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}
