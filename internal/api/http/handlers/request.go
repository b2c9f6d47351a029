package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vote-service/internal/auth"
	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/service"
	apperrors "github.com/spec-kit/vote-service/pkg/util"
)

const maxPageSize = 100

// principal returns the caller verified by the route's gate pipeline.
func principal(c *fiber.Ctx) (service.Principal, error) {
	req, ok := auth.RequestFromContext(c)
	if !ok || req.Claims == nil {
		return service.Principal{}, domain.ErrMissingCredential
	}
	return service.Principal{UserID: req.Claims.UserID, Role: req.Claims.Role}, nil
}

func parsePage(c *fiber.Ctx) service.Page {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > maxPageSize {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return service.Page{Limit: limit, Offset: offset}
}

// optionalQuery returns nil when the query parameter is absent.
func optionalQuery(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func missingFields(fields ...string) error {
	return apperrors.NewValidationError("missing required fields", map[string]any{"fields": fields})
}
