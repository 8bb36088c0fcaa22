package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"study-backend/internal/shared/telemetry"
)

// DocumentKey is the context key handlers set to tag the request log with a storage filename.
const DocumentKey = "documentFilename"

// OperationKey tags the request log with the inference operation (chat, summary, quiz).
const OperationKey = "operation"

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		userEmail, _ := c.Get(userEmailKey)
		document, _ := c.Get(DocumentKey)
		operation, _ := c.Get(OperationKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_email":  userEmail,
			"document":    document,
			"operation":   operation,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
