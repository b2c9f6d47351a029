package dto

import (
	"time"

	"github.com/spec-kit/vote-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for new subjects. Either RoleID or RoleName selects the role.
type RegisterRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	RoleID    string          `json:"role_id"`
	RoleName  domain.RoleName `json:"role"`
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Country   string          `json:"country"`
	Region    *string         `json:"region"`
	Province  *string         `json:"province"`
	District  *string         `json:"district"`
}

// StatusRequest payload for status changes.
type StatusRequest struct {
	Status domain.Status `json:"status"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of a subject. The password hash never leaves the service.
type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Role      domain.RoleName `json:"role"`
	Status    domain.Status   `json:"status"`
	FirstName *string         `json:"first_name,omitempty"`
	LastName  *string         `json:"last_name,omitempty"`
	Country   string          `json:"country"`
	Region    *string         `json:"region,omitempty"`
	Province  *string         `json:"province,omitempty"`
	District  *string         `json:"district,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewUserResponse maps a subject to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Country:   user.Country,
		Region:    user.Region,
		Province:  user.Province,
		District:  user.District,
		CreatedAt: user.CreatedAt,
	}
}
