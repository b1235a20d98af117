package services

import (
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/repositories"
)

// fakeTxRunner satisfies repositories.TxRunner without a database. The
// fake repositories ignore the nil tx handle.
type fakeTxRunner struct{}

func (f *fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

// rollbackTxRunner mimics a real transaction over the fake stores: it
// snapshots them before the callback and restores the snapshots when
// the callback fails, so partial writes do not survive.
type rollbackTxRunner struct {
	candidates *fakeCandidateRepo
	history    *fakeStageHistoryRepo
}

func (r *rollbackTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	candidatesBefore := make([]*models.Candidate, len(r.candidates.candidates))
	for i, c := range r.candidates.candidates {
		clone := *c
		candidatesBefore[i] = &clone
	}
	historyLen := len(r.history.entries)

	if err := fc(nil); err != nil {
		r.candidates.candidates = candidatesBefore
		r.history.entries = r.history.entries[:historyLen]
		return err
	}
	return nil
}

type fakeCandidateRepo struct {
	candidates []*models.Candidate

	// createErr is returned (and cleared) on the next Create call.
	createErr error
	// missEmailProbes makes FindByEmail miss that many times, to
	// simulate a concurrent insert landing between probe and create.
	missEmailProbes int
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{}
}

func (f *fakeCandidateRepo) WithTx(tx *gorm.DB) repositories.CandidateRepository { return f }

func (f *fakeCandidateRepo) Create(candidate *models.Candidate) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	clone := *candidate
	f.candidates = append(f.candidates, &clone)
	return nil
}

func (f *fakeCandidateRepo) FindByID(id uuid.UUID) (*models.Candidate, error) {
	for _, c := range f.candidates {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, errs.NotFound("candidate %s not found", id)
}

func (f *fakeCandidateRepo) FindByEmail(email string) (*models.Candidate, error) {
	if f.missEmailProbes > 0 {
		f.missEmailProbes--
		return nil, nil
	}
	return f.probe(func(c *models.Candidate) bool {
		return c.Email != nil && *c.Email == email
	}), nil
}

func (f *fakeCandidateRepo) FindByWhatsApp(number string) (*models.Candidate, error) {
	return f.probe(func(c *models.Candidate) bool {
		return c.WhatsAppNumber != nil && *c.WhatsAppNumber == number
	}), nil
}

func (f *fakeCandidateRepo) FindByLinkedIn(url string) (*models.Candidate, error) {
	return f.probe(func(c *models.Candidate) bool {
		return c.LinkedInURL != nil && *c.LinkedInURL == url
	}), nil
}

func (f *fakeCandidateRepo) FindByNormalizedName(normalizedName string) (*models.Candidate, error) {
	return f.probe(func(c *models.Candidate) bool {
		return c.NormalizedName == normalizedName
	}), nil
}

func (f *fakeCandidateRepo) probe(match func(*models.Candidate) bool) *models.Candidate {
	for _, c := range f.candidates {
		if match(c) {
			clone := *c
			return &clone
		}
	}
	return nil
}

func (f *fakeCandidateRepo) UpdateFields(id uuid.UUID, updates map[string]interface{}) error {
	for _, c := range f.candidates {
		if c.ID == id {
			applyFakeUpdates(c, updates)
			return nil
		}
	}
	return errs.NotFound("candidate %s not found", id)
}

func applyFakeUpdates(c *models.Candidate, updates map[string]interface{}) {
	setString := func(target **string, value interface{}) {
		s := value.(string)
		*target = &s
	}
	for column, value := range updates {
		switch column {
		case "name":
			c.Name = value.(string)
		case "normalized_name":
			c.NormalizedName = value.(string)
		case "email":
			setString(&c.Email, value)
		case "whatsapp_number":
			setString(&c.WhatsAppNumber, value)
		case "linkedin_url":
			setString(&c.LinkedInURL, value)
		case "location":
			setString(&c.Location, value)
		case "designation":
			setString(&c.Designation, value)
		case "company":
			setString(&c.Company, value)
		case "profile_summary":
			setString(&c.ProfileSummary, value)
		case "experience_years":
			years := value.(float64)
			c.ExperienceYears = &years
		case "number_of_companies":
			count := value.(int)
			c.NumberOfCompanies = &count
		case "current_stage":
			c.CurrentStage = value.(models.CandidateStage)
		case "updated_at":
			c.UpdatedAt = value.(time.Time)
		}
	}
}

func (f *fakeCandidateRepo) UpdateStage(id uuid.UUID, stage models.CandidateStage) error {
	return f.UpdateFields(id, map[string]interface{}{"current_stage": stage})
}

func (f *fakeCandidateRepo) List(stage *models.CandidateStage, limit, offset int) ([]models.Candidate, error) {
	var out []models.Candidate
	for _, c := range f.candidates {
		if stage != nil && c.CurrentStage != *stage {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCandidateRepo) Delete(id uuid.UUID) error {
	for i, c := range f.candidates {
		if c.ID == id {
			f.candidates = append(f.candidates[:i], f.candidates[i+1:]...)
			return nil
		}
	}
	return errs.NotFound("candidate %s not found", id)
}

type fakeEvaluationRepo struct {
	evaluations []*models.Evaluation
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{}
}

func (f *fakeEvaluationRepo) WithTx(tx *gorm.DB) repositories.EvaluationRepository { return f }

func (f *fakeEvaluationRepo) Create(eval *models.Evaluation) error {
	clone := *eval
	f.evaluations = append(f.evaluations, &clone)
	return nil
}

func (f *fakeEvaluationRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	for _, e := range f.evaluations {
		if e.ID == id {
			clone := *e
			return &clone, nil
		}
	}
	return nil, errs.NotFound("evaluation %s not found", id)
}

func (f *fakeEvaluationRepo) ListByCandidate(candidateID uuid.UUID) ([]models.Evaluation, error) {
	var out []models.Evaluation
	for _, e := range f.evaluations {
		if e.CandidateID == candidateID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type fakeStageHistoryRepo struct {
	entries []*models.StageHistoryEntry
	// createErr simulates a failing audit insert.
	createErr error
}

func newFakeStageHistoryRepo() *fakeStageHistoryRepo {
	return &fakeStageHistoryRepo{}
}

func (f *fakeStageHistoryRepo) WithTx(tx *gorm.DB) repositories.StageHistoryRepository { return f }

func (f *fakeStageHistoryRepo) Create(entry *models.StageHistoryEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *entry
	f.entries = append(f.entries, &clone)
	return nil
}

func (f *fakeStageHistoryRepo) ListByCandidate(candidateID uuid.UUID) ([]models.StageHistoryEntry, error) {
	var out []models.StageHistoryEntry
	for _, e := range f.entries {
		if e.CandidateID == candidateID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type fakeJobDescriptionRepo struct {
	jds []*models.JobDescription
}

func newFakeJobDescriptionRepo() *fakeJobDescriptionRepo {
	return &fakeJobDescriptionRepo{}
}

func (f *fakeJobDescriptionRepo) WithTx(tx *gorm.DB) repositories.JobDescriptionRepository {
	return f
}

func (f *fakeJobDescriptionRepo) Create(jd *models.JobDescription) error {
	clone := *jd
	f.jds = append(f.jds, &clone)
	return nil
}

func (f *fakeJobDescriptionRepo) FindByID(id uuid.UUID) (*models.JobDescription, error) {
	for _, jd := range f.jds {
		if jd.ID == id {
			clone := *jd
			return &clone, nil
		}
	}
	return nil, errs.NotFound("job description %s not found", id)
}

func (f *fakeJobDescriptionRepo) FindByNormalizedTitle(normalizedTitle string) (*models.JobDescription, error) {
	for _, jd := range f.jds {
		if jd.NormalizedTitle == normalizedTitle {
			clone := *jd
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeJobDescriptionRepo) List() ([]models.JobDescription, error) {
	var out []models.JobDescription
	for _, jd := range f.jds {
		out = append(out, *jd)
	}
	return out, nil
}

func (f *fakeJobDescriptionRepo) Delete(id uuid.UUID) error {
	for i, jd := range f.jds {
		if jd.ID == id {
			f.jds = append(f.jds[:i], f.jds[i+1:]...)
			return nil
		}
	}
	return errs.NotFound("job description %s not found", id)
}

type fakeCommunicationRepo struct {
	logs []*models.CommunicationLog
}

func newFakeCommunicationRepo() *fakeCommunicationRepo {
	return &fakeCommunicationRepo{}
}

func (f *fakeCommunicationRepo) WithTx(tx *gorm.DB) repositories.CommunicationLogRepository {
	return f
}

func (f *fakeCommunicationRepo) Create(log *models.CommunicationLog) error {
	clone := *log
	f.logs = append(f.logs, &clone)
	return nil
}

func (f *fakeCommunicationRepo) FindByID(id uuid.UUID) (*models.CommunicationLog, error) {
	for _, l := range f.logs {
		if l.ID == id {
			clone := *l
			return &clone, nil
		}
	}
	return nil, errs.NotFound("communication log %s not found", id)
}

func (f *fakeCommunicationRepo) ListByEvaluation(evaluationID uuid.UUID) ([]models.CommunicationLog, error) {
	var out []models.CommunicationLog
	for _, l := range f.logs {
		if l.EvaluationID == evaluationID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeCommunicationRepo) FindPending(limit int) ([]models.CommunicationLog, error) {
	var out []models.CommunicationLog
	for _, l := range f.logs {
		if l.Status == models.DeliveryPending {
			out = append(out, *l)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCommunicationRepo) ClaimPending(id uuid.UUID) (bool, error) {
	for _, l := range f.logs {
		if l.ID == id && l.Status == models.DeliveryPending {
			l.Status = models.DeliverySending
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCommunicationRepo) MarkSent(id uuid.UUID, providerMessageID string) error {
	for _, l := range f.logs {
		if l.ID == id {
			now := time.Now()
			l.Status = models.DeliverySent
			l.ProviderMessageID = &providerMessageID
			l.ErrorMessage = nil
			l.SentAt = &now
			return nil
		}
	}
	return errs.NotFound("communication log %s not found", id)
}

func (f *fakeCommunicationRepo) MarkFailed(id uuid.UUID, errorMessage string) error {
	for _, l := range f.logs {
		if l.ID == id {
			l.Status = models.DeliveryFailed
			l.ErrorMessage = &errorMessage
			return nil
		}
	}
	return errs.NotFound("communication log %s not found", id)
}

type fakeMailer struct {
	sent    []string
	sendErr error
}

func (f *fakeMailer) Send(to, subject, body string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, to)
	return "msg-" + to, nil
}

type fakeWhatsAppSender struct {
	sent    []string
	sendErr error
}

func (f *fakeWhatsAppSender) Send(to, message string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, to)
	return "wamid-" + to, nil
}

func strptr(s string) *string { return &s }
