package middleware

import (
	"time"

	"speed-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// Logger writes one access log line per request including request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []any{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", float64(latency.Microseconds()) / 1000.0,
			"ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, "errors", errs)
		}
		if c.Writer.Status() >= 500 {
			utils.L().Errorw("http", fields...)
			return
		}
		utils.L().Infow("http", fields...)
	}
}
