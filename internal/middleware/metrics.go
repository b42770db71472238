package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finoteselam-court/court-portal-api/internal/service"
)

// ScrapePath is excluded from request metrics.
const ScrapePath = "/metrics"

// Metrics records request counts and latency per route template. Unmatched
// paths share one label so visitor-typed URLs cannot grow the series set.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		switch path {
		case ScrapePath:
			return
		case "":
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
