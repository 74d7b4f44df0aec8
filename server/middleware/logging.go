package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/podscribe/logger"
)

// RequestLogger logs every request with method, path, status and duration.
// Health and info probes are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
			"client", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}
		logByStatus(log.WithContext(c.Request.Context()), fields, status)
	}
}

func isProbe(path string) bool {
	return path == "/health" || path == "/info"
}

// logByStatus logs at error for 5xx, warn for 4xx and debug otherwise.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
