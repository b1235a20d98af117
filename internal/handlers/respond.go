package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/resume-screener/internal/errs"
)

// fail renders the shared error envelope: success flag plus a
// human-readable error string, status picked from the error kind.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(errs.HTTPStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
