package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/tier"
)

// Field length limits.
const (
	MaxVideoIDLen   = 16
	MaxChannelIDLen = 32
	MaxUserIDLen    = 64
	MaxQueryLen     = 200
)

var (
	// videoIDRe matches YouTube video IDs: alphanumeric, dash, underscore.
	videoIDRe   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ErrorResponse writes the standard API error envelope.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoId must be at most 16 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId contains invalid characters"
	}
	return id, ""
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 32 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateQuery trims a search query and bounds its length. Empty is
// allowed.
func ValidateQuery(q string) (string, string) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) > MaxQueryLen {
		return "", "q must be at most 200 characters"
	}
	return q, ""
}

// ValidateCategory accepts an empty value or a known channel category.
func ValidateCategory(s string) (string, string) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || model.ValidCategory(s) {
		return s, ""
	}
	return "", "category must be one of " + strings.Join(model.ChannelCategories, ", ")
}

// ValidateSubtitleType accepts an empty value or a subtitle origin.
func ValidateSubtitleType(s string) (string, string) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", ""
	}
	o, err := tier.ParseOrigin(s)
	if err != nil || !o.Present() {
		return "", "subtitleType must be manual, auto or community"
	}
	return string(o), ""
}

// ValidateLanguage parses a track language; empty means Korean.
func ValidateLanguage(s string) (model.Language, string) {
	lang, err := model.ParseLanguage(strings.TrimSpace(strings.ToLower(s)))
	if err != nil {
		return "", "lang must be ko or en"
	}
	return lang, ""
}

// ValidateUserID trims the client identifier. Over-long ids are dropped.
func ValidateUserID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > MaxUserIDLen {
		return ""
	}
	return id
}

// ParseID parses a positive integer id. Empty yields 0 when optional.
func ParseID(s, name string, optional bool) (int64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		if optional {
			return 0, ""
		}
		return 0, name + " is required"
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, name + " must be a positive integer"
	}
	return n, ""
}

// ParseInt parses an optional non-negative integer, returning def when absent.
func ParseInt(s, name string, def int) (int, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, ""
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, name + " must be a non-negative integer"
	}
	return n, ""
}
