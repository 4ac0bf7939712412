package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now().UTC()

// MetricsHandler reports the in-memory request counters.
func MetricsHandler(c *gin.Context) {
	m := GetMetrics()
	c.JSON(http.StatusOK, gin.H{
		"started_at":           startedAt,
		"uptime_seconds":       int64(time.Since(startedAt).Seconds()),
		"total_requests":       m.TotalRequests,
		"requests_by_endpoint": m.RequestsByEndpoint,
		"requests_by_status":   m.RequestsByStatus,
	})
}
