package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
)

type JobDescriptionRepository interface {
	WithTx(tx *gorm.DB) JobDescriptionRepository
	Create(jd *models.JobDescription) error
	FindByID(id uuid.UUID) (*models.JobDescription, error)
	FindByNormalizedTitle(normalizedTitle string) (*models.JobDescription, error)
	List() ([]models.JobDescription, error)
	Delete(id uuid.UUID) error
}

type jobDescriptionRepository struct {
	db *gorm.DB
}

func NewJobDescriptionRepository(db *gorm.DB) JobDescriptionRepository {
	return &jobDescriptionRepository{db: db}
}

// WithTx implements JobDescriptionRepository.
func (r *jobDescriptionRepository) WithTx(tx *gorm.DB) JobDescriptionRepository {
	if tx == nil {
		return r
	}
	return &jobDescriptionRepository{db: tx}
}

// Create implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Create(jd *models.JobDescription) error {
	if err := r.db.Create(jd).Error; err != nil {
		return fmt.Errorf("failed to create job description: %w", err)
	}
	return nil
}

// FindByID implements JobDescriptionRepository.
func (r *jobDescriptionRepository) FindByID(id uuid.UUID) (*models.JobDescription, error) {
	var jd models.JobDescription
	if err := r.db.Where("id = ?", id).First(&jd).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("job description %s not found", id)
		}
		return nil, errs.Persistence(err, "failed to find job description")
	}
	return &jd, nil
}

// FindByNormalizedTitle implements JobDescriptionRepository. Returns
// (nil, nil) when no title matches.
func (r *jobDescriptionRepository) FindByNormalizedTitle(normalizedTitle string) (*models.JobDescription, error) {
	var jd models.JobDescription
	err := r.db.Where("normalized_title = ?", normalizedTitle).First(&jd).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Persistence(err, "failed to probe job descriptions")
	}
	return &jd, nil
}

// List implements JobDescriptionRepository.
func (r *jobDescriptionRepository) List() ([]models.JobDescription, error) {
	var jds []models.JobDescription
	if err := r.db.Order("created_at DESC").Find(&jds).Error; err != nil {
		return nil, errs.Persistence(err, "failed to list job descriptions")
	}
	return jds, nil
}

// Delete implements JobDescriptionRepository. Evaluations referencing
// the deleted row keep their data with job_description_id set to NULL
// by the FK, not cascaded.
func (r *jobDescriptionRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.JobDescription{})
	if result.Error != nil {
		return errs.Persistence(result.Error, "failed to delete job description")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("job description %s not found", id)
	}
	return nil
}
