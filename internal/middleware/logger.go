package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const loggerKey = "logger"

// RequestLogger stores a request-scoped logger in the context and writes one
// line per request once the response is known. Severity follows the status.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		l := log.With().Str("request_id", GetRequestID(c)).Logger()
		c.Set(loggerKey, l)

		c.Next()

		status := c.Writer.Status()
		var e *zerolog.Event
		switch {
		case status >= 500:
			e = l.Error()
		case status >= 400:
			e = l.Warn()
		default:
			e = l.Info()
		}
		if caller := CallerFrom(c); caller.Authenticated() {
			e = e.Int64("user_id", caller.UserID)
		}

		e.
			Dur("latency", time.Since(start)).
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("uri", c.Request.RequestURI).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("API")
	}
}

// GetLogger returns the request logger, or a disabled one outside RequestLogger.
func GetLogger(c *gin.Context) zerolog.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if zl, ok := l.(zerolog.Logger); ok {
			return zl
		}
	}
	return zerolog.Nop()
}
