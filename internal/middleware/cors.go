package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

var (
	corsMethods = []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}
	corsHeaders = []string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, UserIDHeader, RequestIDHeader}
	corsExposed = []string{RequestIDHeader, fiber.HeaderRetryAfter, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
)

// NewCORS allows the read API from the configured origins. Preflight
// responses are cached for a day.
func NewCORS(corsOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  ParseOrigins(corsOrigins),
		AllowMethods:  corsMethods,
		AllowHeaders:  corsHeaders,
		ExposeHeaders: corsExposed,
		MaxAge:        24 * 60 * 60,
	})
}

// ParseOrigins splits a comma-separated origin list and drops blanks.
// An empty list, or one containing "*", allows every origin.
func ParseOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			return []string{"*"}
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
