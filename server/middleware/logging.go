package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/nucleus/logger"
)

var quietPaths = map[string]bool{
	"/health": true,
	"/livez":  true,
	"/readyz": true,
}

// RequestLogger logs every request except health checks, at a level chosen
// by status code.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			"status", status,
			logger.FieldDuration, latency.Milliseconds(),
			"client", c.ClientIP(),
		)
		if id := c.GetString(logger.FieldRequestID); id != "" {
			fields[logger.FieldRequestID] = id
		}
		if sid := c.GetString(logger.FieldSessionID); sid != "" {
			fields[logger.FieldSessionID] = sid
		}
		if latency > 500*time.Millisecond {
			fields["slow"] = true
		}

		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}
