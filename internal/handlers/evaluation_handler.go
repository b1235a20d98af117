package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/repositories"
	"hireflow/resume-screener/internal/services"
)

type EvaluationHandler struct {
	recorder       services.RecorderService
	notifier       services.NotifierService
	evaluations    repositories.EvaluationRepository
	communications repositories.CommunicationLogRepository
	indexer        services.ProfileIndexer
}

func NewEvaluationHandler(
	recorder services.RecorderService,
	notifier services.NotifierService,
	evaluations repositories.EvaluationRepository,
	communications repositories.CommunicationLogRepository,
	indexer services.ProfileIndexer,
) *EvaluationHandler {
	return &EvaluationHandler{
		recorder:       recorder,
		notifier:       notifier,
		evaluations:    evaluations,
		communications: communications,
		indexer:        indexer,
	}
}

// HandleSubmit handles POST /evaluations: candidate resolution and the
// evaluation insert commit or roll back together.
func (h *EvaluationHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.SubmitEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	var jobDescriptionID *uuid.UUID
	if req.JobDescriptionID != nil && *req.JobDescriptionID != "" {
		parsed, err := uuid.Parse(*req.JobDescriptionID)
		if err != nil {
			return badRequest(c, "Invalid job_description_id format")
		}
		jobDescriptionID = &parsed
	}

	result, err := h.recorder.Submit(req.Candidate, jobDescriptionID, req.Evaluation)
	if err != nil {
		return fail(c, err)
	}

	if h.indexer != nil && result.Candidate != nil {
		h.indexer.IndexCandidate(c.Context(), result.Candidate)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"result": models.SubmitEvaluationResponse{
			EvaluationID:   result.EvaluationID.String(),
			CandidateID:    result.CandidateID.String(),
			IsNewCandidate: result.IsNew,
			MatchMethod:    string(result.MatchMethod),
		},
	})
}

// HandleGet handles GET /evaluations/:id
func (h *EvaluationHandler) HandleGet(c *fiber.Ctx) error {
	evaluationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid evaluation ID format")
	}

	evaluation, err := h.evaluations.FindByID(evaluationID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"evaluation": evaluation,
	})
}

// HandleNotify handles POST /evaluations/:id/notifications
func (h *EvaluationHandler) HandleNotify(c *fiber.Ctx) error {
	evaluationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid evaluation ID format")
	}

	var req models.NotifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	channels := make([]models.Channel, 0, len(req.Channels))
	for _, raw := range req.Channels {
		channels = append(channels, models.Channel(raw))
	}

	logs, err := h.notifier.QueueEvaluation(evaluationID, channels)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"queued":  logs,
	})
}

// HandleListCommunications handles GET /evaluations/:id/communications
func (h *EvaluationHandler) HandleListCommunications(c *fiber.Ctx) error {
	evaluationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid evaluation ID format")
	}

	if _, err := h.evaluations.FindByID(evaluationID); err != nil {
		return fail(c, err)
	}

	logs, err := h.communications.ListByEvaluation(evaluationID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"communications": logs,
	})
}
