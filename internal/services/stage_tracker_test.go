package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
)

func newTestTracker(candidates *fakeCandidateRepo, history *fakeStageHistoryRepo) StageTrackerService {
	return NewStageTrackerService(&fakeTxRunner{}, candidates, newFakeEvaluationRepo(), history)
}

func seedCandidate(t *testing.T, repo *fakeCandidateRepo) uuid.UUID {
	t.Helper()
	resolver := newTestResolver(repo)
	resolution, err := resolver.Resolve(models.CandidateInput{
		Name:  "Test Candidate",
		Email: strptr("candidate@x.com"),
	})
	require.NoError(t, err)
	return resolution.CandidateID
}

func TestSetStageRejectsInvalidStage(t *testing.T) {
	candidates := newFakeCandidateRepo()
	history := newFakeStageHistoryRepo()
	tracker := newTestTracker(candidates, history)
	candidateID := seedCandidate(t, candidates)

	_, err := tracker.SetStage(candidateID, models.StageUpdateRequest{
		Stage:   "Hired Immediately",
		Comment: "great candidate",
	})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Empty(t, history.entries)
}

func TestSetStageRequiresComment(t *testing.T) {
	candidates := newFakeCandidateRepo()
	history := newFakeStageHistoryRepo()
	tracker := newTestTracker(candidates, history)
	candidateID := seedCandidate(t, candidates)

	for _, comment := range []string{"", "   ", "\t\n"} {
		_, err := tracker.SetStage(candidateID, models.StageUpdateRequest{
			Stage:   string(models.StageShortlisted),
			Comment: comment,
		})
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
	}

	// No transition happened: stage unchanged, no history rows.
	stage, err := tracker.GetStage(candidateID)
	require.NoError(t, err)
	assert.Equal(t, models.StageApplied, stage)
	assert.Empty(t, history.entries)
}

func TestSetStageUnknownCandidate(t *testing.T) {
	tracker := newTestTracker(newFakeCandidateRepo(), newFakeStageHistoryRepo())

	_, err := tracker.SetStage(uuid.New(), models.StageUpdateRequest{
		Stage:   string(models.StageShortlisted),
		Comment: "strong portfolio",
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestSetStageUpdatesStageAndAppendsHistory(t *testing.T) {
	candidates := newFakeCandidateRepo()
	history := newFakeStageHistoryRepo()
	tracker := newTestTracker(candidates, history)
	candidateID := seedCandidate(t, candidates)

	stage, err := tracker.SetStage(candidateID, models.StageUpdateRequest{
		Stage:     string(models.StageShortlisted),
		Comment:   "strong portfolio",
		ChangedBy: "recruiter@corp",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageShortlisted, stage)

	current, err := tracker.GetStage(candidateID)
	require.NoError(t, err)
	assert.Equal(t, models.StageShortlisted, current)

	entries, err := tracker.GetHistory(candidateID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.StageShortlisted, entries[0].Stage)
	assert.Equal(t, "strong portfolio", entries[0].Comment)
	assert.Equal(t, "recruiter@corp", entries[0].ChangedBy)
}

func TestSetStageAllowsAnyTransitionIncludingOutOfRejected(t *testing.T) {
	candidates := newFakeCandidateRepo()
	history := newFakeStageHistoryRepo()
	tracker := newTestTracker(candidates, history)
	candidateID := seedCandidate(t, candidates)

	_, err := tracker.SetStage(candidateID, models.StageUpdateRequest{
		Stage:   string(models.StageRejected),
		Comment: "not enough backend experience",
	})
	require.NoError(t, err)

	// Rejections are correctable: back into the pipeline.
	stage, err := tracker.SetStage(candidateID, models.StageUpdateRequest{
		Stage:   string(models.StageInterviewScheduled),
		Comment: "rejection was a mistake, rescheduling",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageInterviewScheduled, stage)

	entries, err := tracker.GetHistory(candidateID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSetStageFailedHistoryInsertRollsBackStage(t *testing.T) {
	candidates := newFakeCandidateRepo()
	history := newFakeStageHistoryRepo()
	tracker := NewStageTrackerService(
		&rollbackTxRunner{candidates: candidates, history: history},
		candidates, newFakeEvaluationRepo(), history,
	)
	candidateID := seedCandidate(t, candidates)

	history.createErr = errors.New("insert rejected")
	_, err := tracker.SetStage(candidateID, models.StageUpdateRequest{
		Stage:   string(models.StageShortlisted),
		Comment: "strong portfolio",
	})
	require.Error(t, err)
	assert.Equal(t, 500, errs.HTTPStatus(err))

	// The stage update and the history row commit or roll back together:
	// a rejected audit insert must not leave the stage moved.
	stage, err := tracker.GetStage(candidateID)
	require.NoError(t, err)
	assert.Equal(t, models.StageApplied, stage)
	assert.Empty(t, history.entries)
}

func TestSetStageCommentIsTrimmed(t *testing.T) {
	candidates := newFakeCandidateRepo()
	history := newFakeStageHistoryRepo()
	tracker := newTestTracker(candidates, history)
	candidateID := seedCandidate(t, candidates)

	_, err := tracker.SetStage(candidateID, models.StageUpdateRequest{
		Stage:   string(models.StageOnHold),
		Comment: "  waiting on headcount  ",
	})
	require.NoError(t, err)

	entries, err := tracker.GetHistory(candidateID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "waiting on headcount", entries[0].Comment)
}

func TestSetStageEveryCanonicalStageAccepted(t *testing.T) {
	candidates := newFakeCandidateRepo()
	history := newFakeStageHistoryRepo()
	tracker := newTestTracker(candidates, history)
	candidateID := seedCandidate(t, candidates)

	for _, stage := range models.PipelineStages {
		got, err := tracker.SetStage(candidateID, models.StageUpdateRequest{
			Stage:   string(stage),
			Comment: "moving along",
		})
		require.NoError(t, err)
		assert.Equal(t, stage, got)
	}
	assert.Len(t, history.entries, len(models.PipelineStages))
}
