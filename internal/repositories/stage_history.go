package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
)

type StageHistoryRepository interface {
	WithTx(tx *gorm.DB) StageHistoryRepository
	Create(entry *models.StageHistoryEntry) error
	ListByCandidate(candidateID uuid.UUID) ([]models.StageHistoryEntry, error)
}

type stageHistoryRepository struct {
	db *gorm.DB
}

func NewStageHistoryRepository(db *gorm.DB) StageHistoryRepository {
	return &stageHistoryRepository{db: db}
}

// WithTx implements StageHistoryRepository.
func (r *stageHistoryRepository) WithTx(tx *gorm.DB) StageHistoryRepository {
	if tx == nil {
		return r
	}
	return &stageHistoryRepository{db: tx}
}

// Create implements StageHistoryRepository.
func (r *stageHistoryRepository) Create(entry *models.StageHistoryEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create stage history entry: %w", err)
	}
	return nil
}

// ListByCandidate implements StageHistoryRepository, most recent first.
func (r *stageHistoryRepository) ListByCandidate(candidateID uuid.UUID) ([]models.StageHistoryEntry, error) {
	var entries []models.StageHistoryEntry
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, errs.Persistence(err, "failed to list stage history")
	}
	return entries, nil
}
