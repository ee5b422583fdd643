package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"easymove_notifier/internal/platform/metrics"
)

// Metrics records RED metrics per route pattern. Unmatched routes share one
// label so scanners cannot inflate cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(path, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
