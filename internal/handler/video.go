package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/chabro2633/diary-korean/internal/middleware"
	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/service"
)

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// GetByVideoID handles GET /api/videos/:videoId?lang&subtitleId&contextSize
func (h *VideoHandler) GetByVideoID(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	lang, errMsg := middleware.ValidateLanguage(fiber.Query[string](c, "lang"))
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	subtitleID, errMsg := middleware.ParseID(fiber.Query[string](c, "subtitleId"), "subtitleId", true)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	window, errMsg := middleware.ParseInt(fiber.Query[string](c, "contextSize"), "contextSize", repository.DefaultContextWindow)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}

	detail, err := h.svc.Get(c.Context(), videoID, lang, subtitleID, window)
	if err != nil {
		return respondError(c, err, "Video not found", "Failed to get video")
	}
	return c.JSON(detail)
}

// Context handles GET /api/subtitles/:subtitleId/context?window
func (h *VideoHandler) Context(c fiber.Ctx) error {
	subtitleID, errMsg := middleware.ParseID(c.Params("subtitleId"), "subtitleId", false)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	window, errMsg := middleware.ParseInt(fiber.Query[string](c, "window"), "window", repository.DefaultContextWindow)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}

	ctx, err := h.svc.Context(c.Context(), subtitleID, window)
	if err != nil {
		return respondError(c, err, "Subtitle not found", "Failed to get subtitle context")
	}
	return c.JSON(ctx)
}
