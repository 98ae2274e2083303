package middleware

import (
	"strconv"
	"strings"
	"time"

	"bioserver/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency per matched route.
func Metrics(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}
		start := time.Now()
		metrics.RequestStarted()
		c.Next()
		metrics.RequestFinished(
			strings.ToUpper(c.Request.Method),
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
