package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
)

func newTestJDService(repo *fakeJobDescriptionRepo) JobDescriptionService {
	return NewJobDescriptionService(&fakeTxRunner{}, repo, NormalizeName)
}

func TestJobDescriptionFindOrCreateRequiresTitle(t *testing.T) {
	svc := newTestJDService(newFakeJobDescriptionRepo())

	_, _, err := svc.FindOrCreate(models.JobDescriptionRequest{Title: "  "})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestJobDescriptionFindOrCreateDeduplicatesByTitle(t *testing.T) {
	svc := newTestJDService(newFakeJobDescriptionRepo())

	first, created, err := svc.FindOrCreate(models.JobDescriptionRequest{
		Title:       "Senior Backend Engineer",
		Description: "Go, Postgres, Kafka",
	})
	require.NoError(t, err)
	assert.True(t, created)

	// Casing and spacing differences are the same job.
	second, created, err := svc.FindOrCreate(models.JobDescriptionRequest{
		Title:       "  senior   BACKEND engineer ",
		Description: "different description, same role",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Go, Postgres, Kafka", second.Description)
}

func TestJobDescriptionGetUnknown(t *testing.T) {
	svc := newTestJDService(newFakeJobDescriptionRepo())

	_, err := svc.Get(uuid.New())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
