package models

import (
	"time"

	"github.com/google/uuid"
)

type CandidateStage string

const (
	StageApplied            CandidateStage = "Applied/Received"
	StageScreening          CandidateStage = "Screening/Review"
	StageShortlisted        CandidateStage = "Shortlisted"
	StageInterviewScheduled CandidateStage = "Interview Scheduled"
	StageInterviewCompleted CandidateStage = "Interview Completed"
	StageOfferExtended      CandidateStage = "Offer Extended"
	StageOfferAccepted      CandidateStage = "Offer Accepted"
	StageRejected           CandidateStage = "Rejected"
	StageOnHold             CandidateStage = "On Hold"
)

// PipelineStages is the display order for the hiring pipeline. The order
// is advisory only: any stage may transition to any other stage,
// including out of Rejected.
var PipelineStages = []CandidateStage{
	StageApplied,
	StageScreening,
	StageShortlisted,
	StageInterviewScheduled,
	StageInterviewCompleted,
	StageOfferExtended,
	StageOfferAccepted,
	StageRejected,
	StageOnHold,
}

func (s CandidateStage) Valid() bool {
	for _, stage := range PipelineStages {
		if s == stage {
			return true
		}
	}
	return false
}

// MatchMethod reports which identity signal linked a submission to a
// candidate record.
type MatchMethod string

const (
	MatchEmail    MatchMethod = "email"
	MatchWhatsApp MatchMethod = "whatsapp"
	MatchLinkedIn MatchMethod = "linkedin"
	MatchName     MatchMethod = "name"
	MatchNew      MatchMethod = "new"
)

type Candidate struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name              string         `gorm:"type:text;not null" json:"name"`
	NormalizedName    string         `gorm:"type:text;index" json:"-"`
	Email             *string        `gorm:"type:text;uniqueIndex" json:"email,omitempty"`
	WhatsAppNumber    *string        `gorm:"column:whatsapp_number;type:text;uniqueIndex" json:"whatsapp_number,omitempty"`
	LinkedInURL       *string        `gorm:"column:linkedin_url;type:text;index" json:"linkedin_url,omitempty"`
	Location          *string        `gorm:"type:text" json:"location,omitempty"`
	Designation       *string        `gorm:"type:text" json:"designation,omitempty"`
	Company           *string        `gorm:"type:text" json:"company,omitempty"`
	ExperienceYears   *float64       `gorm:"type:numeric(4,1)" json:"experience_years,omitempty"`
	NumberOfCompanies *int           `gorm:"type:integer" json:"number_of_companies,omitempty"`
	ProfileSummary    *string        `gorm:"type:text" json:"profile_summary,omitempty"`
	CurrentStage      CandidateStage `gorm:"type:text;not null;default:'Applied/Received'" json:"current_stage"`
	CreatedAt         time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}
