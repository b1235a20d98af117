package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
)

// stubTracker is an in-memory StageTrackerService for handler tests.
type stubTracker struct {
	stages  map[uuid.UUID]models.CandidateStage
	history map[uuid.UUID][]models.StageHistoryEntry
}

func newStubTracker() *stubTracker {
	return &stubTracker{
		stages:  make(map[uuid.UUID]models.CandidateStage),
		history: make(map[uuid.UUID][]models.StageHistoryEntry),
	}
}

func (s *stubTracker) SetStage(candidateID uuid.UUID, input models.StageUpdateRequest) (models.CandidateStage, error) {
	stage := models.CandidateStage(input.Stage)
	if !stage.Valid() {
		return "", errs.Validation("invalid stage %q", input.Stage)
	}
	if strings.TrimSpace(input.Comment) == "" {
		return "", errs.Validation("a reason is required for every stage transition")
	}
	if _, ok := s.stages[candidateID]; !ok {
		return "", errs.NotFound("candidate %s not found", candidateID)
	}
	s.stages[candidateID] = stage
	s.history[candidateID] = append(s.history[candidateID], models.StageHistoryEntry{
		ID:          uuid.New(),
		CandidateID: candidateID,
		Stage:       stage,
		Comment:     input.Comment,
	})
	return stage, nil
}

func (s *stubTracker) GetStage(candidateID uuid.UUID) (models.CandidateStage, error) {
	stage, ok := s.stages[candidateID]
	if !ok {
		return "", errs.NotFound("candidate %s not found", candidateID)
	}
	return stage, nil
}

func (s *stubTracker) GetHistory(candidateID uuid.UUID) ([]models.StageHistoryEntry, error) {
	if _, ok := s.stages[candidateID]; !ok {
		return nil, errs.NotFound("candidate %s not found", candidateID)
	}
	return s.history[candidateID], nil
}

func newStageApp(tracker *stubTracker) *fiber.App {
	app := fiber.New()
	handler := NewStageHandler(tracker)
	app.Get("/candidates/:id/stage", handler.HandleGetStage)
	app.Put("/candidates/:id/stage", handler.HandleSetStage)
	app.Get("/candidates/:id/stage/history", handler.HandleGetHistory)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestHandleGetStage(t *testing.T) {
	tracker := newStubTracker()
	candidateID := uuid.New()
	tracker.stages[candidateID] = models.StageScreening
	app := newStageApp(tracker)

	req := httptest.NewRequest(http.MethodGet, "/candidates/"+candidateID.String()+"/stage", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, string(models.StageScreening), body["current_stage"])
}

func TestHandleGetStageInvalidID(t *testing.T) {
	app := newStageApp(newStubTracker())

	req := httptest.NewRequest(http.MethodGet, "/candidates/not-a-uuid/stage", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid candidate ID format", body["error"])
}

func TestHandleSetStage(t *testing.T) {
	tracker := newStubTracker()
	candidateID := uuid.New()
	tracker.stages[candidateID] = models.StageApplied
	app := newStageApp(tracker)

	payload := `{"stage":"Shortlisted","comment":"strong portfolio"}`
	req := httptest.NewRequest(http.MethodPut, "/candidates/"+candidateID.String()+"/stage", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, string(models.StageShortlisted), body["current_stage"])
}

func TestHandleSetStageMissingComment(t *testing.T) {
	tracker := newStubTracker()
	candidateID := uuid.New()
	tracker.stages[candidateID] = models.StageApplied
	app := newStageApp(tracker)

	payload := `{"stage":"Shortlisted","comment":"  "}`
	req := httptest.NewRequest(http.MethodPut, "/candidates/"+candidateID.String()+"/stage", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "reason is required")
}

func TestHandleSetStageUnknownCandidate(t *testing.T) {
	app := newStageApp(newStubTracker())

	payload := `{"stage":"Shortlisted","comment":"strong portfolio"}`
	req := httptest.NewRequest(http.MethodPut, "/candidates/"+uuid.NewString()+"/stage", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleGetHistory(t *testing.T) {
	tracker := newStubTracker()
	candidateID := uuid.New()
	tracker.stages[candidateID] = models.StageApplied
	app := newStageApp(tracker)

	for _, payload := range []string{
		`{"stage":"Screening/Review","comment":"resume looks solid"}`,
		`{"stage":"Shortlisted","comment":"passed screening"}`,
	} {
		req := httptest.NewRequest(http.MethodPut, "/candidates/"+candidateID.String()+"/stage", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/candidates/"+candidateID.String()+"/stage/history", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	history, ok := body["history"].([]interface{})
	require.True(t, ok)
	assert.Len(t, history, 2)
}
