package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/middleware"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/service"
)

// respondError maps service errors onto the API envelope. Internal details
// are logged, never returned.
func respondError(c fiber.Ctx, err error, notFoundMsg, failMsg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", notFoundMsg)
	case errors.Is(err, service.ErrInvalidWindow):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
	}
	logging.Logger.Error().Err(err).
		Str("request_id", middleware.RequestID(c)).
		Str("method", c.Method()).
		Msg(failMsg)
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", failMsg)
}

func badRequest(c fiber.Ctx, msg string) error {
	return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", msg)
}
