package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
)

type EvaluationRepository interface {
	WithTx(tx *gorm.DB) EvaluationRepository
	Create(eval *models.Evaluation) error
	FindByID(id uuid.UUID) (*models.Evaluation, error)
	ListByCandidate(candidateID uuid.UUID) ([]models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// WithTx implements EvaluationRepository.
func (r *evaluationRepository) WithTx(tx *gorm.DB) EvaluationRepository {
	if tx == nil {
		return r
	}
	return &evaluationRepository{db: tx}
}

// Create implements EvaluationRepository.
func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

// FindByID implements EvaluationRepository.
func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := r.db.Where("id = ?", id).First(&eval).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("evaluation %s not found", id)
		}
		return nil, errs.Persistence(err, "failed to find evaluation")
	}
	return &eval, nil
}

// ListByCandidate implements EvaluationRepository. Most recent first:
// created_at ordering defines the "latest evaluation" for a candidate.
func (r *evaluationRepository) ListByCandidate(candidateID uuid.UUID) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&evals).Error
	if err != nil {
		return nil, errs.Persistence(err, "failed to list evaluations")
	}
	return evals, nil
}
