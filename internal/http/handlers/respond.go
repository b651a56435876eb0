package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"petstore/internal/repos"
)

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// storeError maps the repo error taxonomy onto HTTP statuses. Unknown errors
// bubble up to the app error handler.
func storeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, repos.ErrInsufficientStock):
		return jsonError(c, fiber.StatusConflict, "insufficient stock")
	case errors.Is(err, repos.ErrUniqueViolation):
		return jsonError(c, fiber.StatusConflict, "already exists")
	case errors.Is(err, repos.ErrReferentialIntegrity):
		return jsonError(c, fiber.StatusUnprocessableEntity, "unknown reference")
	case errors.Is(err, repos.ErrNumericOverflow):
		return jsonError(c, fiber.StatusUnprocessableEntity, "value out of range")
	default:
		return err
	}
}
