package handler

import (
	"strconv"

	"go-pos-register/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// errorResponse maps a domain error to its HTTP status.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		status = fiber.StatusNotFound
	case apperror.KindConstraintViolation:
		status = fiber.StatusConflict
	case apperror.KindInvalidInput:
		status = fiber.StatusBadRequest
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error", "kind": apperror.KindStorageFailure.String()})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": apperror.KindOf(err).String()})
}

func invalidJSON(c *fiber.Ctx) error {
	return errorResponse(c, apperror.InvalidInput("Invalid JSON"))
}

// Helper untuk parse UUID dari path param
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.InvalidInput("invalid %s", name)
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
