package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/vote-service/internal/observability"
	apperrors "github.com/spec-kit/vote-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares. The error handler runs
// inside the request logger so logged statuses are the rendered ones.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = renderError(c, logger, metrics, err)
			}
		}()
		return c.Next()
	}
}

func renderError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	domainErr := translateError(err)
	metrics.RecordError(observability.RoutePattern(c), c.Method(), domainErr.Code)

	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}

	switch status := domainErr.HTTPStatus; {
	case status >= 500:
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
	case status == fiber.StatusUnauthorized, status == fiber.StatusForbidden, status == fiber.StatusTooManyRequests:
		logger.Debug("request rejected",
			zap.String("path", c.Path()),
			zap.String("code", domainErr.Code),
			zap.NamedError("reason", domainErr.Err),
		)
	}

	c.Status(domainErr.HTTPStatus)
	if jsonErr := c.JSON(fiber.Map{"error": body}); jsonErr != nil {
		logger.Error("write error response", zap.Error(jsonErr))
	}
	return nil
}
