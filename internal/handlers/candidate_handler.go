package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/repositories"
	"hireflow/resume-screener/internal/services"
)

type CandidateHandler struct {
	resolver    services.ResolverService
	candidates  repositories.CandidateRepository
	evaluations repositories.EvaluationRepository
	indexer     services.ProfileIndexer
}

func NewCandidateHandler(
	resolver services.ResolverService,
	candidates repositories.CandidateRepository,
	evaluations repositories.EvaluationRepository,
	indexer services.ProfileIndexer,
) *CandidateHandler {
	return &CandidateHandler{
		resolver:    resolver,
		candidates:  candidates,
		evaluations: evaluations,
		indexer:     indexer,
	}
}

// HandleFindOrCreate handles POST /candidates/find-or-create
func (h *CandidateHandler) HandleFindOrCreate(c *fiber.Ctx) error {
	var req models.CandidateInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resolution, err := h.resolver.Resolve(req)
	if err != nil {
		return fail(c, err)
	}

	if h.indexer != nil && resolution.Candidate != nil {
		h.indexer.IndexCandidate(c.Context(), resolution.Candidate)
	}

	status := fiber.StatusOK
	if resolution.IsNew {
		status = fiber.StatusCreated
	}

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"result": models.ResolveResponse{
			CandidateID:    resolution.CandidateID.String(),
			IsNewCandidate: resolution.IsNew,
			MatchMethod:    string(resolution.MatchMethod),
		},
	})
}

// HandleList handles GET /candidates
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	var stage *models.CandidateStage
	if raw := c.Query("stage"); raw != "" {
		parsed := models.CandidateStage(raw)
		if !parsed.Valid() {
			return badRequest(c, "Invalid stage filter")
		}
		stage = &parsed
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	candidates, err := h.candidates.List(stage, limit, offset)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"candidates": candidates,
	})
}

// HandleGet handles GET /candidates/:id
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid candidate ID format")
	}

	candidate, err := h.candidates.FindByID(candidateID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"candidate": candidate,
	})
}

// HandleDelete handles DELETE /candidates/:id
func (h *CandidateHandler) HandleDelete(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid candidate ID format")
	}

	if err := h.candidates.Delete(candidateID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// HandleListEvaluations handles GET /candidates/:id/evaluations
func (h *CandidateHandler) HandleListEvaluations(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid candidate ID format")
	}

	if _, err := h.candidates.FindByID(candidateID); err != nil {
		return fail(c, err)
	}

	evaluations, err := h.evaluations.ListByCandidate(candidateID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"evaluations": evaluations,
	})
}

// HandleSimilar handles GET /candidates/:id/similar
func (h *CandidateHandler) HandleSimilar(c *fiber.Ctx) error {
	if h.indexer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "similarity search is not configured",
		})
	}

	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid candidate ID format")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	if limit <= 0 {
		limit = 5
	}

	candidate, err := h.candidates.FindByID(candidateID)
	if err != nil {
		return fail(c, err)
	}

	similar, err := h.indexer.SimilarTo(c.Context(), candidate, limit)
	if err != nil {
		return fail(c, errs.Persistence(err, "similarity search failed"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"similar": similar,
	})
}
