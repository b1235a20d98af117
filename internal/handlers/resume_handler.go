package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"hireflow/resume-screener/internal/services"
)

type ResumeHandler struct {
	storageService services.StorageService
	extractor      services.TextExtractor
	maxFileSize    int64
}

func NewResumeHandler(
	storageService services.StorageService,
	extractor services.TextExtractor,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		storageService: storageService,
		extractor:      extractor,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /resumes: store the attachment, extract its
// plain text, return both.
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "resume file is required")
	}

	if file.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return fail(c, err)
	}

	text, err := h.extractor.ExtractFile(filePath)
	if err != nil {
		// Keep the store consistent: no record points at this file
		h.storageService.DeleteFile(filename)
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"filename":      filename,
		"original_name": file.Filename,
		"text":          text,
	})
}
