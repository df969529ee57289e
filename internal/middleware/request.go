package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID echoes the caller's X-Request-Id or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)

		c.Set("request_id", id)

		c.Next()
	}
}

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path // fallback (e.g. 404)
		}
		method := c.Request.Method

		c.Next()

		attrs := []any{
			"method", method,
			"route", route,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		}
		if hospital := CurrentHospital(c); hospital != nil {
			attrs = append(attrs, "hospital_id", hospital.ID)
		}

		log.InfoContext(c.Request.Context(), "http_request", attrs...)
	}
}
