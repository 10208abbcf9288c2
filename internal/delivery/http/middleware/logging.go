// Package middleware carries the catalog's ambient HTTP concerns: request
// id propagation and structured access logging (panic recovery is gin's own
// gin.Recovery, registered in routes). It mirrors
// the teacher's middleware package, with logging rewired onto zerolog in
// place of the teacher's gin.LoggerWithFormatter.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkglogger "shopunit-catalog/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware assigns (or propagates) a request id into the gin
// context and the response header.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggingMiddleware logs one structured line per request via pkg/logger,
// replacing the teacher's gin.LoggerWithFormatter.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		pkglogger.Info("request completed", pkglogger.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
	}
}
