package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/pkg/hash"
)

const (
	RequestIDHeader = "X-Request-ID"
	// UserIDHeader carries an opaque client identifier used for search logs.
	UserIDHeader = "X-User-ID"
)

// requestIDKey is the Locals key holding the request id.
const requestIDKey = "requestId"

// RequestID returns the id assigned to the request by NewRequestLogger.
func RequestID(c fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// sanitizePath replaces identifier segments with placeholders so ids never
// reach the logs.
func sanitizePath(path string) string {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		switch parts[i-1] {
		case "videos":
			parts[i] = ":videoId"
		case "subtitles":
			parts[i] = ":subtitleId"
		case "channels":
			parts[i] = ":channelId"
		}
	}
	return strings.Join(parts, "/")
}

// NewRequestLogger logs each request through the process logger. A client
// supplied X-Request-ID is kept, otherwise a new one is generated and echoed
// back. Raw IPs are hashed; identifier path segments are sanitized.
func NewRequestLogger() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		} else {
			id = strings.Clone(id)
		}
		c.Locals(requestIDKey, id)
		c.Set(RequestIDHeader, id)

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		log := logging.Logger
		evt := log.Info()
		if status >= 500 {
			evt = log.Error()
		} else if status >= 400 {
			evt = log.Warn()
		}

		evt.
			Str("request_id", id).
			Str("method", c.Method()).
			Str("path", sanitizePath(c.Path())).
			Int("status", status).
			Dur("duration_ms", duration).
			Str("ip_hash", hash.ShortSHA256(c.IP(), 12)).
			Int("bytes_sent", len(c.Response().Body())).
			Msg("request")

		return err
	}
}
