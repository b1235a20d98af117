package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
)

type CommunicationLogRepository interface {
	WithTx(tx *gorm.DB) CommunicationLogRepository
	Create(log *models.CommunicationLog) error
	FindByID(id uuid.UUID) (*models.CommunicationLog, error)
	ListByEvaluation(evaluationID uuid.UUID) ([]models.CommunicationLog, error)
	FindPending(limit int) ([]models.CommunicationLog, error)
	// ClaimPending atomically moves a pending row to sending and reports
	// whether this caller won the claim. A row can reach the queue twice
	// (direct enqueue plus the poller); only the claim winner delivers.
	ClaimPending(id uuid.UUID) (bool, error)
	MarkSent(id uuid.UUID, providerMessageID string) error
	MarkFailed(id uuid.UUID, errorMessage string) error
}

type communicationLogRepository struct {
	db *gorm.DB
}

func NewCommunicationLogRepository(db *gorm.DB) CommunicationLogRepository {
	return &communicationLogRepository{db: db}
}

// WithTx implements CommunicationLogRepository.
func (r *communicationLogRepository) WithTx(tx *gorm.DB) CommunicationLogRepository {
	if tx == nil {
		return r
	}
	return &communicationLogRepository{db: tx}
}

// Create implements CommunicationLogRepository.
func (r *communicationLogRepository) Create(log *models.CommunicationLog) error {
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create communication log: %w", err)
	}
	return nil
}

// FindByID implements CommunicationLogRepository.
func (r *communicationLogRepository) FindByID(id uuid.UUID) (*models.CommunicationLog, error) {
	var log models.CommunicationLog
	if err := r.db.Where("id = ?", id).First(&log).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("communication log %s not found", id)
		}
		return nil, errs.Persistence(err, "failed to find communication log")
	}
	return &log, nil
}

// ListByEvaluation implements CommunicationLogRepository.
func (r *communicationLogRepository) ListByEvaluation(evaluationID uuid.UUID) ([]models.CommunicationLog, error) {
	var logs []models.CommunicationLog
	err := r.db.
		Where("evaluation_id = ?", evaluationID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, errs.Persistence(err, "failed to list communication logs")
	}
	return logs, nil
}

// FindPending implements CommunicationLogRepository.
func (r *communicationLogRepository) FindPending(limit int) ([]models.CommunicationLog, error) {
	var logs []models.CommunicationLog
	err := r.db.
		Where("status = ?", models.DeliveryPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, errs.Persistence(err, "failed to find pending communications")
	}
	return logs, nil
}

// ClaimPending implements CommunicationLogRepository.
func (r *communicationLogRepository) ClaimPending(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.CommunicationLog{}).
		Where("id = ? AND status = ?", id, models.DeliveryPending).
		Update("status", models.DeliverySending)

	if result.Error != nil {
		return false, errs.Persistence(result.Error, "failed to claim communication log")
	}
	return result.RowsAffected > 0, nil
}

// MarkSent implements CommunicationLogRepository.
func (r *communicationLogRepository) MarkSent(id uuid.UUID, providerMessageID string) error {
	return r.update(id, map[string]interface{}{
		"status":              models.DeliverySent,
		"provider_message_id": providerMessageID,
		"error_message":       nil,
		"sent_at":             time.Now(),
	})
}

// MarkFailed implements CommunicationLogRepository.
func (r *communicationLogRepository) MarkFailed(id uuid.UUID, errorMessage string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.DeliveryFailed,
		"error_message": errorMessage,
	})
}

func (r *communicationLogRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.CommunicationLog{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return errs.Persistence(result.Error, "failed to update communication log")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("communication log %s not found", id)
	}
	return nil
}
