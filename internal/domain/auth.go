package domain

import "time"

// RoleName is a named permission class.
type RoleName string

const (
	RoleAdmin     RoleName = "admin"
	RoleModerator RoleName = "moderator"
	RoleVoter     RoleName = "voter"
)

// DefaultRoles lists the reference roles seeded at install time.
var DefaultRoles = []RoleName{RoleAdmin, RoleModerator, RoleVoter}

// Role is immutable reference data referenced by users.
type Role struct {
	ID          string
	Name        RoleName
	Description *string
	CreatedAt   time.Time
}

// Session describes an issued session token. It is never persisted.
type Session struct {
	Token       string
	UserID      string
	Role        RoleName
	Fingerprint string
	ExpiresAt   time.Time
}
