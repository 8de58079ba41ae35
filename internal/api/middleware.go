package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr1hm/go-hazard-watch/internal/observability"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware echoes the caller's request ID or assigns one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = "req_" + uuid.New().String()[:22]
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// MetricsMiddleware counts requests by route template so path parameters do
// not explode label cardinality.
func MetricsMiddleware(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status())
	}
}
