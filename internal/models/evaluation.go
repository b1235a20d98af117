package models

import (
	"time"

	"github.com/google/uuid"
)

type Verdict string

const (
	VerdictRecommended       Verdict = "Recommended"
	VerdictPartiallySuitable Verdict = "Partially Suitable"
	VerdictNotSuitable       Verdict = "Not Suitable"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictRecommended, VerdictPartiallySuitable, VerdictNotSuitable:
		return true
	}
	return false
}

type Evaluation struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"candidate_id"`
	JobDescriptionID *uuid.UUID `gorm:"type:uuid;index" json:"job_description_id,omitempty"`
	RoleApplied      string     `gorm:"type:text" json:"role_applied"`
	Verdict          Verdict    `gorm:"type:text;not null" json:"verdict"`
	MatchScore       int        `gorm:"type:integer;not null" json:"match_score"`
	ScoreBreakdown   JSONMap    `gorm:"type:jsonb" json:"score_breakdown,omitempty"`
	Strengths        StringList `gorm:"type:jsonb" json:"strengths,omitempty"`
	Gaps             StringList `gorm:"type:jsonb" json:"gaps,omitempty"`
	EducationGaps    StringList `gorm:"type:jsonb" json:"education_gaps,omitempty"`
	ExperienceGaps   StringList `gorm:"type:jsonb" json:"experience_gaps,omitempty"`
	BetterSuitedNote *string    `gorm:"type:text" json:"better_suited_note,omitempty"`
	EmailDraft       JSONMap    `gorm:"type:jsonb" json:"email_draft,omitempty"`
	WhatsAppDraft    JSONMap    `gorm:"column:whatsapp_draft;type:jsonb" json:"whatsapp_draft,omitempty"`
	CreatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Candidate      Candidate       `gorm:"foreignKey:CandidateID" json:"-"`
	JobDescription *JobDescription `gorm:"foreignKey:JobDescriptionID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
