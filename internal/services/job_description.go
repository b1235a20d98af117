package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/repositories"
)

// JobDescriptionService deduplicates job descriptions by
// case/whitespace-normalized title equality.
type JobDescriptionService interface {
	FindOrCreate(input models.JobDescriptionRequest) (*models.JobDescription, bool, error)
	Get(id uuid.UUID) (*models.JobDescription, error)
	List() ([]models.JobDescription, error)
	Delete(id uuid.UUID) error
}

type jobDescriptionService struct {
	txRunner  repositories.TxRunner
	jds       repositories.JobDescriptionRepository
	normalize Normalizer
}

func NewJobDescriptionService(
	txRunner repositories.TxRunner,
	jds repositories.JobDescriptionRepository,
	normalize Normalizer,
) JobDescriptionService {
	return &jobDescriptionService{
		txRunner:  txRunner,
		jds:       jds,
		normalize: normalize,
	}
}

// FindOrCreate implements JobDescriptionService. The boolean reports
// whether a new row was created.
func (s *jobDescriptionService) FindOrCreate(input models.JobDescriptionRequest) (*models.JobDescription, bool, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, false, errs.Validation("job description title is required")
	}

	normalized := s.normalize(input.Title)

	var jd *models.JobDescription
	var created bool
	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		repo := s.jds.WithTx(tx)

		existing, err := repo.FindByNormalizedTitle(normalized)
		if err != nil {
			return err
		}
		if existing != nil {
			jd = existing
			return nil
		}

		now := time.Now()
		candidate := &models.JobDescription{
			ID:              uuid.New(),
			Title:           input.Title,
			NormalizedTitle: normalized,
			Description:     input.Description,
			ExternalLink:    input.ExternalLink,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		// Savepoint so a lost title race leaves the transaction usable
		// for the winner lookup below.
		createErr := repositories.WithSavepoint(tx, "before_job_description_insert", func() error {
			return repo.Create(candidate)
		})
		if createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				// Concurrent request created the same title first.
				winner, perr := repo.FindByNormalizedTitle(normalized)
				if perr != nil {
					return perr
				}
				if winner == nil {
					return errs.Conflict("job description insert conflicted but no matching title was found")
				}
				jd = winner
				return nil
			}
			return errs.Persistence(createErr, "failed to create job description")
		}
		jd = candidate
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return jd, created, nil
}

// Get implements JobDescriptionService.
func (s *jobDescriptionService) Get(id uuid.UUID) (*models.JobDescription, error) {
	return s.jds.FindByID(id)
}

// List implements JobDescriptionService.
func (s *jobDescriptionService) List() ([]models.JobDescription, error) {
	return s.jds.List()
}

// Delete implements JobDescriptionService.
func (s *jobDescriptionService) Delete(id uuid.UUID) error {
	return s.jds.Delete(id)
}
