package middleware

import (
	"strconv"
	"time"

	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// RequestLogger attaches a request scoped logger, logs one line per request
// and records the latency histogram. Errors are rendered here so the logged
// status is the one sent to the client.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = req.Header.Get(echo.HeaderXRequestID)
			}
			l := logger.L().With("request_id", reqID)
			c.SetRequest(req.WithContext(logger.Inject(req.Context(), l)))

			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			elapsed := time.Since(start)

			metrics.HTTPRequestDuration.
				WithLabelValues(req.Method, route, strconv.Itoa(status)).
				Observe(elapsed.Seconds())

			l.Info("Request",
				"method", req.Method,
				"route", route,
				"status", status,
				"latency_ms", elapsed.Milliseconds(),
				"ip", c.RealIP(),
			)

			return nil
		}
	}
}
