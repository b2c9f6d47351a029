package events

import (
	"time"

	"github.com/spec-kit/vote-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVoteCast          EventType = "vote_cast"
	EventUserRegistered    EventType = "user_registered"
	EventUserStatusChanged EventType = "user_status_changed"
)

// Actor identifies who triggered an event. UserID is nil for system actions
// such as seeding.
type Actor struct {
	UserID *string         `json:"user_id,omitempty"`
	Role   domain.RoleName `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// VoteCastPayload payload.
type VoteCastPayload struct {
	EventID   string `json:"event_id"`
	SectionID string `json:"section_id"`
	OptionID  string `json:"option_id"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string          `json:"email"`
	Role  domain.RoleName `json:"role"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}
