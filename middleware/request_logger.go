package middleware

import (
	"article-narration-pipeline/application/ports/outbound"
	"github.com/gin-gonic/gin"
	"time"
)

func RequestLogger(logger outbound.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			logger.ErrorWithFields(c.Errors.Last(), "Request failed", fields)
			return
		}
		if c.Writer.Status() >= 500 {
			logger.WarnWithFields("Request completed with server error", fields)
			return
		}
		logger.DebugWithFields("Request completed", fields)
	}
}
