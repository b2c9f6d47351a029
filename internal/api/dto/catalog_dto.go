package dto

import (
	"time"

	"github.com/spec-kit/vote-service/internal/domain"
)

// CreateEventRequest payload. Times are RFC3339.
type CreateEventRequest struct {
	Name                  string    `json:"name"`
	Description           *string   `json:"description"`
	StartsAt              time.Time `json:"start_date"`
	EndsAt                time.Time `json:"end_date"`
	Country               string    `json:"country"`
	Region                *string   `json:"region"`
	Province              *string   `json:"province"`
	District              *string   `json:"district"`
	IsPublic              *bool     `json:"is_public"`
	RequireAuthentication *bool     `json:"require_authentication"`
	AllowMultipleVotes    *bool     `json:"allow_multiple_votes"`
}

// UpdateEventRequest payload; omitted fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"start_date"`
	EndsAt      *time.Time `json:"end_date"`
}

// EventResponse describes an event.
type EventResponse struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Description           *string       `json:"description,omitempty"`
	StartsAt              time.Time     `json:"start_date"`
	EndsAt                time.Time     `json:"end_date"`
	Country               string        `json:"country"`
	Region                *string       `json:"region,omitempty"`
	Province              *string       `json:"province,omitempty"`
	District              *string       `json:"district,omitempty"`
	IsPublic              bool          `json:"is_public"`
	RequireAuthentication bool          `json:"require_authentication"`
	AllowMultipleVotes    bool          `json:"allow_multiple_votes"`
	Status                domain.Status `json:"status"`
	CreatedBy             *string       `json:"created_by,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// NewEventResponse maps an event.
func NewEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:                    event.ID,
		Name:                  event.Name,
		Description:           event.Description,
		StartsAt:              event.StartsAt,
		EndsAt:                event.EndsAt,
		Country:               event.Country,
		Region:                event.Region,
		Province:              event.Province,
		District:              event.District,
		IsPublic:              event.IsPublic,
		RequireAuthentication: event.RequireAuthentication,
		AllowMultipleVotes:    event.AllowMultipleVotes,
		Status:                event.Status,
		CreatedBy:             event.CreatedBy,
		CreatedAt:             event.CreatedAt,
		UpdatedAt:             event.UpdatedAt,
	}
}

// CreateSectionRequest payload.
type CreateSectionRequest struct {
	EventID     string  `json:"event_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateSectionRequest payload; omitted fields are left unchanged.
type UpdateSectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// SectionResponse describes a section.
type SectionResponse struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Status      domain.Status `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewSectionResponse maps a section.
func NewSectionResponse(section *domain.Section) SectionResponse {
	return SectionResponse{
		ID:          section.ID,
		EventID:     section.EventID,
		Name:        section.Name,
		Description: section.Description,
		Status:      section.Status,
		CreatedAt:   section.CreatedAt,
	}
}

// CreateOptionRequest payload.
type CreateOptionRequest struct {
	SectionID   string  `json:"section_id"`
	Label       string  `json:"label"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// UpdateOptionRequest payload; omitted fields are left unchanged.
type UpdateOptionRequest struct {
	Label       *string `json:"label"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// OptionResponse describes an option.
type OptionResponse struct {
	ID          string        `json:"id"`
	SectionID   string        `json:"section_id"`
	Label       string        `json:"label"`
	Description *string       `json:"description,omitempty"`
	ImageURL    *string       `json:"image_url,omitempty"`
	Status      domain.Status `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewOptionResponse maps an option.
func NewOptionResponse(option *domain.Option) OptionResponse {
	return OptionResponse{
		ID:          option.ID,
		SectionID:   option.SectionID,
		Label:       option.Label,
		Description: option.Description,
		ImageURL:    option.ImageURL,
		Status:      option.Status,
		CreatedAt:   option.CreatedAt,
	}
}
