package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// RouteLabels returns the matched route pattern and method as metric labels.
// Both are copied: fiber reuses the underlying buffers once the request ends.
func RouteLabels(c *fiber.Ctx) (route, method string) {
	return utils.CopyString(c.Route().Path), utils.CopyString(c.Method())
}

// RequestLogger logs each request and records its metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		route, method := RouteLabels(c)
		metrics.RecordRequest(route, method, status, latency)

		logger.Info("http request",
			zap.String("method", method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		)
		return err
	}
}
