package middleware

import (
	"context"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/common/metrics"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"

	"github.com/gin-gonic/gin"
)

// Metrics records every request in Prometheus and, when enabled, in CloudWatch.
// The route template is used as the path label so ids do not explode cardinality.
func Metrics(cw *aws_pkg.MetricsClient, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()

		c.Next()

		metrics.InFlight.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		duration := time.Since(start)
		status := c.Writer.Status()
		metrics.ObserveHTTP(c.Request.Method, path, status, duration)

		if !cw.IsEnabled() {
			return
		}
		go func(method string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			dims := map[string]string{"Service": serviceName, "Method": method, "Path": path}
			_ = cw.RecordCount(ctx, aws_pkg.MetricHTTPRequests, dims)
			_ = cw.RecordLatency(ctx, aws_pkg.MetricHTTPLatency, duration, dims)
			if status >= 400 {
				_ = cw.RecordCount(ctx, aws_pkg.MetricHTTPErrors, dims)
			}
		}(c.Request.Method)
	}
}
