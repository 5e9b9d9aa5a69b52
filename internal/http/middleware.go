package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/audit"
	"github.com/mrlokans/placebook/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware attaches a correlation id to the request context so
// audit events written by the request can be grouped.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			ctx, id = audit.NewRequestID(ctx)
		} else {
			ctx = audit.WithRequestID(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware writes one structured entry per request.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
			logger.String("request_id", audit.RequestID(c.Request.Context())),
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("request", fields...)
		default:
			log.Debug("request", fields...)
		}
	}
}
