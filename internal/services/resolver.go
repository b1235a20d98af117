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

// Resolution is the resolver's answer: one candidate identity per
// submission, with the signal that produced the link.
type Resolution struct {
	CandidateID uuid.UUID
	IsNew       bool
	MatchMethod models.MatchMethod
	Candidate   *models.Candidate
}

type ResolverService interface {
	// Resolve runs the full probe + insert/update sequence in its own
	// transaction.
	Resolve(input models.CandidateInput) (*Resolution, error)
	// ResolveInTx runs the same sequence inside a caller-owned
	// transaction, so resolve-then-record is one atomic unit.
	ResolveInTx(tx *gorm.DB, input models.CandidateInput) (*Resolution, error)
}

type resolverService struct {
	txRunner   repositories.TxRunner
	candidates repositories.CandidateRepository
	normalize  Normalizer
}

func NewResolverService(
	txRunner repositories.TxRunner,
	candidates repositories.CandidateRepository,
	normalize Normalizer,
) ResolverService {
	return &resolverService{
		txRunner:   txRunner,
		candidates: candidates,
		normalize:  normalize,
	}
}

// Resolve implements ResolverService.
func (s *resolverService) Resolve(input models.CandidateInput) (*Resolution, error) {
	var resolution *Resolution
	err := s.txRunner.Transaction(func(tx *gorm.DB) error {
		var err error
		resolution, err = s.ResolveInTx(tx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resolution, nil
}

// ResolveInTx implements ResolverService. Matching strategies run in
// strict priority order and the first hit wins: email, then whatsapp,
// then linkedin, then normalized name. Only when all probes miss is a
// new candidate inserted.
func (s *resolverService) ResolveInTx(tx *gorm.DB, input models.CandidateInput) (*Resolution, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errs.Validation("candidate name is required")
	}

	repo := s.candidates.WithTx(tx)

	matched, method, err := s.probe(repo, input)
	if err != nil {
		return nil, err
	}
	if matched != nil {
		return s.updateMatched(repo, matched, input, method)
	}

	candidate := s.newCandidate(input)
	// The savepoint keeps the surrounding transaction usable when the
	// insert is rejected: without it Postgres aborts the tx and the
	// retry probes below would fail with 25P02.
	createErr := repositories.WithSavepoint(tx, "before_candidate_insert", func() error {
		return repo.Create(candidate)
	})
	if createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			// Lost the insert race on the email/whatsapp unique index:
			// another request committed the same identity between our
			// probe and insert. Retry once as an update.
			return s.retryAsUpdate(repo, input)
		}
		return nil, errs.Persistence(createErr, "failed to create candidate")
	}

	return &Resolution{
		CandidateID: candidate.ID,
		IsNew:       true,
		MatchMethod: models.MatchNew,
		Candidate:   candidate,
	}, nil
}

func (s *resolverService) probe(
	repo repositories.CandidateRepository,
	input models.CandidateInput,
) (*models.Candidate, models.MatchMethod, error) {
	if hasValue(input.Email) {
		c, err := repo.FindByEmail(*input.Email)
		if err != nil || c != nil {
			return c, models.MatchEmail, err
		}
	}
	if hasValue(input.WhatsAppNumber) {
		c, err := repo.FindByWhatsApp(*input.WhatsAppNumber)
		if err != nil || c != nil {
			return c, models.MatchWhatsApp, err
		}
	}
	if hasValue(input.LinkedInURL) {
		c, err := repo.FindByLinkedIn(*input.LinkedInURL)
		if err != nil || c != nil {
			return c, models.MatchLinkedIn, err
		}
	}
	c, err := repo.FindByNormalizedName(s.normalize(input.Name))
	if err != nil || c != nil {
		return c, models.MatchName, err
	}
	return nil, "", nil
}

// updateMatched refreshes the matched candidate with fill-if-missing
// semantics. The name is always overwritten with the latest submission;
// every optional field only overwrites when the new value is set.
func (s *resolverService) updateMatched(
	repo repositories.CandidateRepository,
	existing *models.Candidate,
	input models.CandidateInput,
	method models.MatchMethod,
) (*Resolution, error) {
	updates := map[string]interface{}{
		"name":            input.Name,
		"normalized_name": s.normalize(input.Name),
		"updated_at":      time.Now(),
	}

	applyIfSet(updates, "email", input.Email)
	applyIfSet(updates, "whatsapp_number", input.WhatsAppNumber)
	applyIfSet(updates, "linkedin_url", input.LinkedInURL)
	applyIfSet(updates, "location", input.Location)
	applyIfSet(updates, "designation", input.Designation)
	applyIfSet(updates, "company", input.Company)
	applyIfSet(updates, "profile_summary", input.ProfileSummary)
	if input.ExperienceYears != nil {
		updates["experience_years"] = *input.ExperienceYears
	}
	if input.NumberOfCompanies != nil {
		updates["number_of_companies"] = *input.NumberOfCompanies
	}

	if err := repo.UpdateFields(existing.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("email or whatsapp number already belongs to another candidate")
		}
		if errs.IsNotFound(err) {
			return nil, err
		}
		return nil, errs.Persistence(err, "failed to update candidate")
	}

	return &Resolution{
		CandidateID: existing.ID,
		IsNew:       false,
		MatchMethod: method,
		Candidate:   mergedCandidate(existing, input, s.normalize),
	}, nil
}

// retryAsUpdate re-probes after a duplicate-key rejection. The winning
// row must be findable by one of the unique signals; if it is not, the
// conflict is unexplainable and fatal for this request.
func (s *resolverService) retryAsUpdate(
	repo repositories.CandidateRepository,
	input models.CandidateInput,
) (*Resolution, error) {
	matched, method, err := s.probe(repo, input)
	if err != nil {
		return nil, err
	}
	if matched == nil {
		return nil, errs.Conflict("candidate insert conflicted but no matching record was found")
	}
	return s.updateMatched(repo, matched, input, method)
}

func (s *resolverService) newCandidate(input models.CandidateInput) *models.Candidate {
	now := time.Now()
	return &models.Candidate{
		ID:                uuid.New(),
		Name:              input.Name,
		NormalizedName:    s.normalize(input.Name),
		Email:             emptyToNil(input.Email),
		WhatsAppNumber:    emptyToNil(input.WhatsAppNumber),
		LinkedInURL:       emptyToNil(input.LinkedInURL),
		Location:          emptyToNil(input.Location),
		Designation:       emptyToNil(input.Designation),
		Company:           emptyToNil(input.Company),
		ExperienceYears:   input.ExperienceYears,
		NumberOfCompanies: input.NumberOfCompanies,
		ProfileSummary:    emptyToNil(input.ProfileSummary),
		CurrentStage:      models.StageApplied,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func mergedCandidate(existing *models.Candidate, input models.CandidateInput, normalize Normalizer) *models.Candidate {
	merged := *existing
	merged.Name = input.Name
	merged.NormalizedName = normalize(input.Name)
	if hasValue(input.Email) {
		merged.Email = input.Email
	}
	if hasValue(input.WhatsAppNumber) {
		merged.WhatsAppNumber = input.WhatsAppNumber
	}
	if hasValue(input.LinkedInURL) {
		merged.LinkedInURL = input.LinkedInURL
	}
	if hasValue(input.Location) {
		merged.Location = input.Location
	}
	if hasValue(input.Designation) {
		merged.Designation = input.Designation
	}
	if hasValue(input.Company) {
		merged.Company = input.Company
	}
	if hasValue(input.ProfileSummary) {
		merged.ProfileSummary = input.ProfileSummary
	}
	if input.ExperienceYears != nil {
		merged.ExperienceYears = input.ExperienceYears
	}
	if input.NumberOfCompanies != nil {
		merged.NumberOfCompanies = input.NumberOfCompanies
	}
	merged.UpdatedAt = time.Now()
	return &merged
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func emptyToNil(s *string) *string {
	if hasValue(s) {
		return s
	}
	return nil
}

func applyIfSet(updates map[string]interface{}, column string, value *string) {
	if hasValue(value) {
		updates[column] = *value
	}
}
