package models

import (
	"time"

	"github.com/google/uuid"
)

type JobDescription struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title           string    `gorm:"type:text;not null" json:"title"`
	NormalizedTitle string    `gorm:"type:text;uniqueIndex" json:"-"`
	Description     string    `gorm:"type:text" json:"description"`
	ExternalLink    *string   `gorm:"type:text" json:"external_link,omitempty"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}
