package domain

import (
	"errors"
	"fmt"
)

// Session layer.
var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token expired")
	ErrFingerprintMismatch = errors.New("fingerprint mismatch")
	ErrInvalidAPIKey       = errors.New("invalid or missing api key")
)

// Account and authorization layers.
var (
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrSubjectInactive  = errors.New("subject inactive")
	ErrRoleNotPermitted = errors.New("role not permitted")
)

// Throttle layer.
var ErrRateLimited = errors.New("rate limited")

// Ledger layer.
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrVotingClosed    = errors.New("voting closed")
	ErrSectionNotFound = errors.New("section not found")
	ErrOptionNotFound  = errors.New("option not found")
	ErrDuplicateVote   = errors.New("duplicate vote")
)

// Credential flows and catalog.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrRoleNotFound       = errors.New("role not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidWindow      = errors.New("end must be after start")
)

// RoleNotPermittedError carries the rejected role.
type RoleNotPermittedError struct {
	Role RoleName
}

func (e *RoleNotPermittedError) Error() string {
	return fmt.Sprintf("%s: %q", ErrRoleNotPermitted, e.Role)
}

// Is matches ErrRoleNotPermitted.
func (e *RoleNotPermittedError) Is(target error) bool {
	return target == ErrRoleNotPermitted
}
