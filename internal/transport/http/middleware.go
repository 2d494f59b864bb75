package httpt

import (
	"time"

	"phonebook/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	_requestIDHeader = "X-Request-ID"
	_slowRequest     = 200 * time.Millisecond
	_unmatchedRoute  = "unmatched"
)

func (h *PhonebookHandler) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(_requestIDHeader)
		if requestID == "" {
			requestID = h.log.GenerateRequestID()
		}
		ctx := h.log.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(_requestIDHeader, requestID)

		c.Next()
	}
}

func (h *PhonebookHandler) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		method := c.Request.Method

		// Route templates keep the metric label set bounded.
		route := c.FullPath()
		if route == "" {
			route = _unmatchedRoute
		}

		h.log.LogAttrs(c.Request.Context(), logger.InfoLevel, "HTTP request",
			logger.String("method", method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", statusCode),
			logger.Duration("duration", latency),
			logger.String("client_ip", c.ClientIP()),
			logger.String("user_agent", c.Request.UserAgent()),
		)

		h.metrics.Request(method, route, statusCode, latency)

		if latency > _slowRequest {
			h.metrics.SlowRequest(method, route, statusCode, latency)
		}
	}
}
