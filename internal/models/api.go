package models

// Request/response shapes for the HTTP surface.

type CandidateInput struct {
	Name              string   `json:"name"`
	Email             *string  `json:"email,omitempty"`
	WhatsAppNumber    *string  `json:"whatsapp_number,omitempty"`
	LinkedInURL       *string  `json:"linkedin_url,omitempty"`
	Location          *string  `json:"location,omitempty"`
	Designation       *string  `json:"designation,omitempty"`
	Company           *string  `json:"company,omitempty"`
	ExperienceYears   *float64 `json:"experience_years,omitempty"`
	NumberOfCompanies *int     `json:"number_of_companies,omitempty"`
	ProfileSummary    *string  `json:"profile_summary,omitempty"`
}

type EvaluationInput struct {
	RoleApplied      string     `json:"role_applied"`
	Verdict          Verdict    `json:"verdict"`
	MatchScore       int        `json:"match_score"`
	ScoreBreakdown   JSONMap    `json:"score_breakdown,omitempty"`
	Strengths        StringList `json:"strengths,omitempty"`
	Gaps             StringList `json:"gaps,omitempty"`
	EducationGaps    StringList `json:"education_gaps,omitempty"`
	ExperienceGaps   StringList `json:"experience_gaps,omitempty"`
	BetterSuitedNote *string    `json:"better_suited_note,omitempty"`
	EmailDraft       JSONMap    `json:"email_draft,omitempty"`
	WhatsAppDraft    JSONMap    `json:"whatsapp_draft,omitempty"`
}

type SubmitEvaluationRequest struct {
	Candidate        CandidateInput  `json:"candidate"`
	JobDescriptionID *string         `json:"job_description_id,omitempty"`
	Evaluation       EvaluationInput `json:"evaluation"`
}

type ResolveResponse struct {
	CandidateID    string `json:"candidate_id"`
	IsNewCandidate bool   `json:"is_new_candidate"`
	MatchMethod    string `json:"match_method"`
}

type SubmitEvaluationResponse struct {
	EvaluationID   string `json:"evaluation_id"`
	CandidateID    string `json:"candidate_id"`
	IsNewCandidate bool   `json:"is_new_candidate"`
	MatchMethod    string `json:"match_method"`
}

type StageUpdateRequest struct {
	Stage        string  `json:"stage"`
	Comment      string  `json:"comment"`
	EvaluationID *string `json:"evaluation_id,omitempty"`
	ChangedBy    string  `json:"changed_by,omitempty"`
}

type JobDescriptionRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	ExternalLink *string `json:"external_link,omitempty"`
}

type NotifyRequest struct {
	Channels []string `json:"channels"`
}

type SimilarCandidate struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Score       float32 `json:"score"`
}
