package middleware

import (
	"strconv"
	"time"

	"shopBackend/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records request count and latency per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				// write the error response now so the recorded status is final
				c.Error(err)
			}

			route := c.Path()
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()

			return nil
		}
	}
}
