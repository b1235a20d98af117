package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/services"
)

type JobDescriptionHandler struct {
	jds services.JobDescriptionService
}

func NewJobDescriptionHandler(jds services.JobDescriptionService) *JobDescriptionHandler {
	return &JobDescriptionHandler{jds: jds}
}

// HandleFindOrCreate handles POST /job-descriptions. Titles are
// deduplicated after case/whitespace normalization.
func (h *JobDescriptionHandler) HandleFindOrCreate(c *fiber.Ctx) error {
	var req models.JobDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	jd, created, err := h.jds.FindOrCreate(req)
	if err != nil {
		return fail(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}

	return c.Status(status).JSON(fiber.Map{
		"success":         true,
		"job_description": jd,
		"created":         created,
	})
}

// HandleList handles GET /job-descriptions
func (h *JobDescriptionHandler) HandleList(c *fiber.Ctx) error {
	jds, err := h.jds.List()
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"job_descriptions": jds,
	})
}

// HandleGet handles GET /job-descriptions/:id
func (h *JobDescriptionHandler) HandleGet(c *fiber.Ctx) error {
	jdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job description ID format")
	}

	jd, err := h.jds.Get(jdID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"job_description": jd,
	})
}

// HandleDelete handles DELETE /job-descriptions/:id. Evaluations keep
// their rows with the reference nulled out.
func (h *JobDescriptionHandler) HandleDelete(c *fiber.Ctx) error {
	jdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job description ID format")
	}

	if err := h.jds.Delete(jdID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
