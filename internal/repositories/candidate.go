package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
)

// CandidateRepository persists the root aggregate. The FindBy* probes
// return (nil, nil) when no row matches; FindByID returns a NotFound
// error instead, since callers pass ids they expect to exist.
type CandidateRepository interface {
	WithTx(tx *gorm.DB) CandidateRepository
	Create(candidate *models.Candidate) error
	FindByID(id uuid.UUID) (*models.Candidate, error)
	FindByEmail(email string) (*models.Candidate, error)
	FindByWhatsApp(number string) (*models.Candidate, error)
	FindByLinkedIn(url string) (*models.Candidate, error)
	FindByNormalizedName(normalizedName string) (*models.Candidate, error)
	UpdateFields(id uuid.UUID, updates map[string]interface{}) error
	UpdateStage(id uuid.UUID, stage models.CandidateStage) error
	List(stage *models.CandidateStage, limit, offset int) ([]models.Candidate, error)
	Delete(id uuid.UUID) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// WithTx implements CandidateRepository.
func (r *candidateRepository) WithTx(tx *gorm.DB) CandidateRepository {
	if tx == nil {
		return r
	}
	return &candidateRepository{db: tx}
}

// Create implements CandidateRepository.
func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// FindByID implements CandidateRepository.
func (r *candidateRepository) FindByID(id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("candidate %s not found", id)
		}
		return nil, errs.Persistence(err, "failed to find candidate")
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByEmail(email string) (*models.Candidate, error) {
	return r.probe("email = ?", email)
}

func (r *candidateRepository) FindByWhatsApp(number string) (*models.Candidate, error) {
	return r.probe("whatsapp_number = ?", number)
}

func (r *candidateRepository) FindByLinkedIn(url string) (*models.Candidate, error) {
	return r.probe("linkedin_url = ?", url)
}

func (r *candidateRepository) FindByNormalizedName(normalizedName string) (*models.Candidate, error) {
	return r.probe("normalized_name = ?", normalizedName)
}

func (r *candidateRepository) probe(query string, arg string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.Where(query, arg).Order("created_at ASC").First(&candidate).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Persistence(err, "failed to probe candidates")
	}
	return &candidate, nil
}

// UpdateFields implements CandidateRepository.
func (r *candidateRepository) UpdateFields(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.Candidate{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("candidate %s not found", id)
	}
	return nil
}

// UpdateStage implements CandidateRepository.
func (r *candidateRepository) UpdateStage(id uuid.UUID, stage models.CandidateStage) error {
	return r.UpdateFields(id, map[string]interface{}{
		"current_stage": stage,
	})
}

// List implements CandidateRepository.
func (r *candidateRepository) List(stage *models.CandidateStage, limit, offset int) ([]models.Candidate, error) {
	query := r.db.Model(&models.Candidate{}).Order("created_at DESC")
	if stage != nil {
		query = query.Where("current_stage = ?", *stage)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var candidates []models.Candidate
	if err := query.Find(&candidates).Error; err != nil {
		return nil, errs.Persistence(err, "failed to list candidates")
	}
	return candidates, nil
}

// Delete implements CandidateRepository. Evaluations and stage history
// go with the candidate via FK cascade.
func (r *candidateRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Candidate{})
	if result.Error != nil {
		return errs.Persistence(result.Error, "failed to delete candidate")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("candidate %s not found", id)
	}
	return nil
}
