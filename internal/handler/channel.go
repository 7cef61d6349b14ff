package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/chabro2633/diary-korean/internal/middleware"
	"github.com/chabro2633/diary-korean/internal/service"
)

type ChannelHandler struct {
	svc *service.ChannelService
}

func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// List handles GET /api/channels
func (h *ChannelHandler) List(c fiber.Ctx) error {
	channels, err := h.svc.List(c.Context(), true)
	if err != nil {
		return respondError(c, err, "", "Failed to list channels")
	}
	return c.JSON(fiber.Map{"channels": channels})
}

// GetByChannelID handles GET /api/channels/:channelId
func (h *ChannelHandler) GetByChannelID(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return badRequest(c, errMsg)
	}

	ch, err := h.svc.Get(c.Context(), channelID)
	if err != nil {
		return respondError(c, err, "Channel not found", "Failed to lookup channel")
	}
	return c.JSON(ch)
}
