package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/services"
)

type StageHandler struct {
	tracker services.StageTrackerService
}

func NewStageHandler(tracker services.StageTrackerService) *StageHandler {
	return &StageHandler{tracker: tracker}
}

// HandleGetStage handles GET /candidates/:id/stage
func (h *StageHandler) HandleGetStage(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid candidate ID format")
	}

	stage, err := h.tracker.GetStage(candidateID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"current_stage": stage,
	})
}

// HandleSetStage handles PUT /candidates/:id/stage
func (h *StageHandler) HandleSetStage(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid candidate ID format")
	}

	var req models.StageUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	stage, err := h.tracker.SetStage(candidateID, req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"current_stage": stage,
	})
}

// HandleGetHistory handles GET /candidates/:id/stage/history
func (h *StageHandler) HandleGetHistory(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid candidate ID format")
	}

	history, err := h.tracker.GetHistory(candidateID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"history": history,
	})
}
