package models

import (
	"time"

	"github.com/google/uuid"
)

// StageHistoryEntry is an immutable audit row: one row per stage
// transition, comment mandatory.
type StageHistoryEntry struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"candidate_id"`
	EvaluationID *uuid.UUID     `gorm:"type:uuid" json:"evaluation_id,omitempty"`
	Stage        CandidateStage `gorm:"type:text;not null" json:"stage"`
	Comment      string         `gorm:"type:text;not null" json:"comment"`
	ChangedBy    string         `gorm:"type:text" json:"changed_by"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (StageHistoryEntry) TableName() string {
	return "stage_history"
}
