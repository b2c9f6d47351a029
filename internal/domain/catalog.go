package domain

import "time"

// Event is a voting campaign with an inclusive voting window.
type Event struct {
	ID                    string
	Name                  string
	Description           *string
	StartsAt              time.Time
	EndsAt                time.Time
	Country               string
	Region                *string
	Province              *string
	District              *string
	IsPublic              bool
	RequireAuthentication bool
	AllowMultipleVotes    bool
	Status                Status
	CreatedBy             *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsOpenAt reports whether t lies within [StartsAt, EndsAt].
func (e *Event) IsOpenAt(t time.Time) bool {
	return !t.Before(e.StartsAt) && !t.After(e.EndsAt)
}

// Section is a ballot question within an event.
type Section struct {
	ID          string
	EventID     string
	Name        string
	Description *string
	Status      Status
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Option is a selectable choice within a section.
type Option struct {
	ID          string
	SectionID   string
	Label       string
	Description *string
	ImageURL    *string
	Status      Status
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Vote is immutable once committed. At most one exists per (UserID, SectionID).
type Vote struct {
	ID        string
	UserID    string
	OptionID  string
	SectionID string
	CastAt    time.Time
}
