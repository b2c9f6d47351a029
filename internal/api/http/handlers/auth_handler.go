package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vote-service/internal/api/dto"
	"github.com/spec-kit/vote-service/internal/auth"
	"github.com/spec-kit/vote-service/internal/service"
)

// AuthHandler exposes login, registration and the protected session check.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return missingFields("email", "password")
	}

	user, session, err := h.auth.Login(c.UserContext(), req.Email, req.Password, auth.FingerprintFromContext(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return missingFields("email", "password")
	}

	user, err := h.auth.Register(c.UserContext(), actor, service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		RoleID:    req.RoleID,
		RoleName:  req.RoleName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
		Region:    req.Region,
		Province:  req.Province,
		District:  req.District,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// SeedUsers handles POST /auth/seed.
func (h *AuthHandler) SeedUsers(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	created, err := h.auth.SeedUsers(c.UserContext(), actor)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		return c.JSON(fiber.Map{"message": "sample users already exist", "data": []string{}})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "sample users created",
		"data":    created,
	})
}

// Protected handles GET /auth/protected.
func (h *AuthHandler) Protected(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user_id": actor.UserID,
			"role":    actor.Role,
		},
	})
}
