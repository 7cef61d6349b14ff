package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/chabro2633/diary-korean/internal/repository"
	"github.com/chabro2633/diary-korean/internal/service"
)

type AnalysisHandler struct {
	svc *service.AnalysisService
}

func NewAnalysisHandler(svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

type analyzeRequest struct {
	SubtitleID  int64 `json:"subtitleId"`
	ContextSize *int  `json:"contextSize"`
}

// Analyze handles POST /api/ai/analyze
func (h *AnalysisHandler) Analyze(c fiber.Ctx) error {
	var req analyzeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if req.SubtitleID <= 0 {
		return badRequest(c, "subtitleId is required")
	}
	window := repository.DefaultContextWindow
	if req.ContextSize != nil {
		window = *req.ContextSize
	}

	resp, err := h.svc.Analyze(c.Context(), req.SubtitleID, window)
	if err != nil {
		return respondError(c, err, "Subtitle not found", "Failed to analyze expression")
	}
	return c.JSON(resp)
}
