package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/chabro2633/diary-korean/internal/middleware"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/service"
)

type SearchHandler struct {
	svc *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search handles GET /api/search?q&limit&offset&category&channelId&subtitleType&personId&lang
func (h *SearchHandler) Search(c fiber.Ctx) error {
	req, errMsg := parseSearchRequest(c)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}

	resp, err := h.svc.Search(c.Context(), req)
	if err != nil {
		return respondError(c, err, "", "Failed to search subtitles")
	}
	return c.JSON(resp)
}

// Trending handles GET /api/search/trending?limit
func (h *SearchHandler) Trending(c fiber.Ctx) error {
	limit, errMsg := middleware.ParseInt(fiber.Query[string](c, "limit"), "limit", service.DefaultTrendingLimit)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}

	keywords, err := h.svc.Trending(c.Context(), limit)
	if err != nil {
		return respondError(c, err, "", "Failed to load trending keywords")
	}
	return c.JSON(fiber.Map{"keywords": keywords})
}

func parseSearchRequest(c fiber.Ctx) (model.SearchRequest, string) {
	var req model.SearchRequest
	var msg string

	if req.Query, msg = middleware.ValidateQuery(fiber.Query[string](c, "q")); msg != "" {
		return req, msg
	}
	if req.Limit, msg = middleware.ParseInt(fiber.Query[string](c, "limit"), "limit", model.DefaultSearchLimit); msg != "" {
		return req, msg
	}
	if req.Offset, msg = middleware.ParseInt(fiber.Query[string](c, "offset"), "offset", 0); msg != "" {
		return req, msg
	}

	f := &req.Filters
	if f.Category, msg = middleware.ValidateCategory(fiber.Query[string](c, "category")); msg != "" {
		return req, msg
	}
	if ch := fiber.Query[string](c, "channelId"); ch != "" {
		if f.ChannelID, msg = middleware.ValidateChannelID(ch); msg != "" {
			return req, msg
		}
	}
	if f.SubtitleType, msg = middleware.ValidateSubtitleType(fiber.Query[string](c, "subtitleType")); msg != "" {
		return req, msg
	}
	if f.PersonID, msg = middleware.ParseID(fiber.Query[string](c, "personId"), "personId", true); msg != "" {
		return req, msg
	}
	if f.Lang, msg = middleware.ValidateLanguage(fiber.Query[string](c, "lang")); msg != "" {
		return req, msg
	}

	req.UserID = middleware.ValidateUserID(c.Get(middleware.UserIDHeader))
	return req, ""
}
