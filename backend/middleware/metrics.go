package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"pincorder/backend/metrics"
)

// MetricsMiddleware records request count and latency per matched route.
func MetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		// Route pattern, e.g. /api/courses/:id/
		route := c.Route().Path
		method := c.Method()
		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
