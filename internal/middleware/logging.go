package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestMetrics holds in-memory request metrics
type RequestMetrics struct {
	mu                 sync.RWMutex
	TotalRequests      uint64
	RequestsByEndpoint map[string]uint64
	RequestsByStatus   map[string]uint64
}

var metrics = &RequestMetrics{
	RequestsByEndpoint: make(map[string]uint64),
	RequestsByStatus:   make(map[string]uint64),
}

// GetMetrics returns a snapshot of the current request metrics.
func GetMetrics() RequestMetrics {
	metrics.mu.RLock()
	defer metrics.mu.RUnlock()
	return RequestMetrics{
		TotalRequests:      metrics.TotalRequests,
		RequestsByEndpoint: copyMap(metrics.RequestsByEndpoint),
		RequestsByStatus:   copyMap(metrics.RequestsByStatus),
	}
}

// copyMap creates a copy of the map
func copyMap(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// StructuredLoggingMiddleware logs each request with its latency and
// records it in the in-memory metrics.
func StructuredLoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		metrics.mu.Lock()
		metrics.TotalRequests++
		endpoint := method + " " + path
		metrics.RequestsByEndpoint[endpoint]++
		metrics.RequestsByStatus[strconv.Itoa(statusCode)]++
		metrics.mu.Unlock()

		logger.Info("request completed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.Int64("latency_ms", latency.Milliseconds()),
			zap.Int("bytes_written", c.Writer.Size()),
		)

		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				logger.Error("request error",
					zap.String("method", method),
					zap.String("path", path),
					zap.Error(err),
				)
			}
		}
	}
}
