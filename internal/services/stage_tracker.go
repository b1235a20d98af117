package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/repositories"
)

// StageTrackerService moves candidates through the hiring pipeline.
// Any stage may transition to any other stage; the ordered list is for
// display only. Rejected is revisitable so mistaken rejections can be
// corrected. Every transition requires a non-empty comment and writes
// exactly one history entry, atomically with the stage update.
type StageTrackerService interface {
	SetStage(candidateID uuid.UUID, input models.StageUpdateRequest) (models.CandidateStage, error)
	GetStage(candidateID uuid.UUID) (models.CandidateStage, error)
	GetHistory(candidateID uuid.UUID) ([]models.StageHistoryEntry, error)
}

type stageTrackerService struct {
	txRunner    repositories.TxRunner
	candidates  repositories.CandidateRepository
	evaluations repositories.EvaluationRepository
	history     repositories.StageHistoryRepository
}

func NewStageTrackerService(
	txRunner repositories.TxRunner,
	candidates repositories.CandidateRepository,
	evaluations repositories.EvaluationRepository,
	history repositories.StageHistoryRepository,
) StageTrackerService {
	return &stageTrackerService{
		txRunner:    txRunner,
		candidates:  candidates,
		evaluations: evaluations,
		history:     history,
	}
}

// SetStage implements StageTrackerService.
func (s *stageTrackerService) SetStage(
	candidateID uuid.UUID,
	input models.StageUpdateRequest,
) (models.CandidateStage, error) {
	stage := models.CandidateStage(input.Stage)
	if !stage.Valid() {
		return "", errs.Validation("invalid stage %q", input.Stage)
	}

	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return "", errs.Validation("a reason is required for every stage transition")
	}

	var evaluationID *uuid.UUID
	if input.EvaluationID != nil && *input.EvaluationID != "" {
		parsed, err := uuid.Parse(*input.EvaluationID)
		if err != nil {
			return "", errs.Validation("invalid evaluation id %q", *input.EvaluationID)
		}
		evaluationID = &parsed
	}

	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		candidateRepo := s.candidates.WithTx(tx)
		if _, err := candidateRepo.FindByID(candidateID); err != nil {
			return err
		}
		if evaluationID != nil {
			if _, err := s.evaluations.WithTx(tx).FindByID(*evaluationID); err != nil {
				return err
			}
		}

		if err := candidateRepo.UpdateStage(candidateID, stage); err != nil {
			return err
		}

		entry := &models.StageHistoryEntry{
			ID:           uuid.New(),
			CandidateID:  candidateID,
			EvaluationID: evaluationID,
			Stage:        stage,
			Comment:      comment,
			ChangedBy:    input.ChangedBy,
			CreatedAt:    time.Now(),
		}
		if err := s.history.WithTx(tx).Create(entry); err != nil {
			return errs.Persistence(err, "failed to append stage history")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return stage, nil
}

// GetStage implements StageTrackerService.
func (s *stageTrackerService) GetStage(candidateID uuid.UUID) (models.CandidateStage, error) {
	candidate, err := s.candidates.FindByID(candidateID)
	if err != nil {
		return "", err
	}
	return candidate.CurrentStage, nil
}

// GetHistory implements StageTrackerService, most recent first.
func (s *stageTrackerService) GetHistory(candidateID uuid.UUID) ([]models.StageHistoryEntry, error) {
	if _, err := s.candidates.FindByID(candidateID); err != nil {
		return nil, err
	}
	return s.history.ListByCandidate(candidateID)
}
