package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/repositories"
)

// SubmissionResult ties the recorded evaluation back to the identity
// the resolver settled on.
type SubmissionResult struct {
	EvaluationID uuid.UUID
	CandidateID  uuid.UUID
	IsNew        bool
	MatchMethod  models.MatchMethod
	Candidate    *models.Candidate
}

type RecorderService interface {
	// Record persists one evaluation against an already-resolved
	// candidate, in its own transaction.
	Record(candidateID uuid.UUID, jobDescriptionID *uuid.UUID, payload models.EvaluationInput) (*models.Evaluation, error)
	// Submit is resolve-then-record as one logical unit: if either step
	// fails, both roll back.
	Submit(candidate models.CandidateInput, jobDescriptionID *uuid.UUID, payload models.EvaluationInput) (*SubmissionResult, error)
}

type recorderService struct {
	txRunner        repositories.TxRunner
	resolver        ResolverService
	candidates      repositories.CandidateRepository
	evaluations     repositories.EvaluationRepository
	jobDescriptions repositories.JobDescriptionRepository
}

func NewRecorderService(
	txRunner repositories.TxRunner,
	resolver ResolverService,
	candidates repositories.CandidateRepository,
	evaluations repositories.EvaluationRepository,
	jobDescriptions repositories.JobDescriptionRepository,
) RecorderService {
	return &recorderService{
		txRunner:        txRunner,
		resolver:        resolver,
		candidates:      candidates,
		evaluations:     evaluations,
		jobDescriptions: jobDescriptions,
	}
}

// Record implements RecorderService.
func (s *recorderService) Record(
	candidateID uuid.UUID,
	jobDescriptionID *uuid.UUID,
	payload models.EvaluationInput,
) (*models.Evaluation, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var eval *models.Evaluation
	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		if _, err := s.candidates.WithTx(tx).FindByID(candidateID); err != nil {
			return err
		}
		var err error
		eval, err = s.recordInTx(tx, candidateID, jobDescriptionID, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return eval, nil
}

// Submit implements RecorderService.
func (s *recorderService) Submit(
	candidate models.CandidateInput,
	jobDescriptionID *uuid.UUID,
	payload models.EvaluationInput,
) (*SubmissionResult, error) {
	// Validate before opening the transaction so contract violations
	// never cost a round trip.
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var result *SubmissionResult
	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		resolution, err := s.resolver.ResolveInTx(tx, candidate)
		if err != nil {
			return err
		}

		eval, err := s.recordInTx(tx, resolution.CandidateID, jobDescriptionID, payload)
		if err != nil {
			return err
		}

		result = &SubmissionResult{
			EvaluationID: eval.ID,
			CandidateID:  resolution.CandidateID,
			IsNew:        resolution.IsNew,
			MatchMethod:  resolution.MatchMethod,
			Candidate:    resolution.Candidate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *recorderService) recordInTx(
	tx *gorm.DB,
	candidateID uuid.UUID,
	jobDescriptionID *uuid.UUID,
	payload models.EvaluationInput,
) (*models.Evaluation, error) {
	if jobDescriptionID != nil {
		if _, err := s.jobDescriptions.WithTx(tx).FindByID(*jobDescriptionID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	eval := &models.Evaluation{
		ID:               uuid.New(),
		CandidateID:      candidateID,
		JobDescriptionID: jobDescriptionID,
		RoleApplied:      payload.RoleApplied,
		Verdict:          payload.Verdict,
		MatchScore:       payload.MatchScore,
		ScoreBreakdown:   payload.ScoreBreakdown,
		Strengths:        payload.Strengths,
		Gaps:             payload.Gaps,
		EducationGaps:    payload.EducationGaps,
		ExperienceGaps:   payload.ExperienceGaps,
		BetterSuitedNote: payload.BetterSuitedNote,
		EmailDraft:       payload.EmailDraft,
		WhatsAppDraft:    payload.WhatsAppDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.evaluations.WithTx(tx).Create(eval); err != nil {
		return nil, errs.Persistence(err, "failed to record evaluation")
	}
	return eval, nil
}

// validatePayload enforces the recorder's contract: verdict must be one
// of the three enumerated values and the match score an integer in
// [0,100]. The structured blobs are stored opaquely, shape unchecked.
func validatePayload(payload models.EvaluationInput) error {
	if !payload.Verdict.Valid() {
		return errs.Validation("verdict must be one of %q, %q, %q",
			models.VerdictRecommended, models.VerdictPartiallySuitable, models.VerdictNotSuitable)
	}
	if payload.MatchScore < 0 || payload.MatchScore > 100 {
		return errs.Validation("match score must be between 0 and 100, got %d", payload.MatchScore)
	}
	return nil
}
