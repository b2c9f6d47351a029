package domain

import "time"

// Status is the soft lifecycle state shared by subjects and catalog entities.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

// User is the subject record: identity, credential hash, role reference and account status.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	RoleID       string
	Role         RoleName
	Status       Status
	FirstName    *string
	LastName     *string
	Country      string
	Region       *string
	Province     *string
	District     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may pass the account gate.
func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusActive
}
