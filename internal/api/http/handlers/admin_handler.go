package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vote-service/internal/api/dto"
	"github.com/spec-kit/vote-service/internal/service"
)

// AdminHandler exposes administrative maintenance endpoints.
type AdminHandler struct {
	auth *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: authService}
}

// SeedRoles handles POST /admin/seed.
func (h *AdminHandler) SeedRoles(c *fiber.Ctx) error {
	created, err := h.auth.SeedRoles(c.UserContext())
	if err != nil {
		return err
	}
	if len(created) == 0 {
		return c.JSON(fiber.Map{"message": "roles already exist", "data": []string{}})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "roles created",
		"data":    created,
	})
}

// UpdateUserStatus handles PATCH /admin/users/:id/status.
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Status == "" {
		return missingFields("status")
	}

	user, err := h.auth.UpdateUserStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
