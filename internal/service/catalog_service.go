package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/repository"
)

// CatalogService manages events, sections and options. Deletion is a status
// change. Deleted rows read as missing, and so do rows under a deleted parent.
type CatalogService struct {
	eventsRepo repository.EventRepository
	sections   repository.SectionRepository
	options    repository.OptionRepository
	logger     *zap.Logger
}

// CatalogDependencies bundles repositories for the catalog service.
type CatalogDependencies struct {
	EventRepo   repository.EventRepository
	SectionRepo repository.SectionRepository
	OptionRepo  repository.OptionRepository
	Logger      *zap.Logger
}

// EventInput describes a new event. Nil flags take the column defaults.
type EventInput struct {
	Name                  string
	Description           *string
	StartsAt              time.Time
	EndsAt                time.Time
	Country               string
	Region                *string
	Province              *string
	District              *string
	IsPublic              *bool
	RequireAuthentication *bool
	AllowMultipleVotes    *bool
}

// EventUpdate carries the mutable event fields; nil leaves a field unchanged.
type EventUpdate struct {
	Name        *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// SectionInput describes a new section.
type SectionInput struct {
	EventID     string
	Name        string
	Description *string
}

// SectionUpdate carries the mutable section fields; nil leaves a field unchanged.
type SectionUpdate struct {
	Name        *string
	Description *string
}

// OptionInput describes a new option.
type OptionInput struct {
	SectionID   string
	Label       string
	Description *string
	ImageURL    *string
}

// OptionUpdate carries the mutable option fields; nil leaves a field unchanged.
type OptionUpdate struct {
	Label       *string
	Description *string
	ImageURL    *string
}

// Page bounds a listing.
type Page struct {
	Limit  int
	Offset int
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		eventsRepo: deps.EventRepo,
		sections:   deps.SectionRepo,
		options:    deps.OptionRepo,
		logger:     loggerOrNop(deps.Logger),
	}
}

// CreateEvent validates the voting window and stores an active event.
func (s *CatalogService) CreateEvent(ctx context.Context, actor Principal, input EventInput) (*domain.Event, error) {
	if !input.EndsAt.After(input.StartsAt) {
		return nil, domain.ErrInvalidWindow
	}
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = defaultCountry
	}
	event := &domain.Event{
		Name:                  strings.TrimSpace(input.Name),
		Description:           input.Description,
		StartsAt:              input.StartsAt,
		EndsAt:                input.EndsAt,
		Country:               country,
		Region:                input.Region,
		Province:              input.Province,
		District:              input.District,
		IsPublic:              boolOr(input.IsPublic, true),
		RequireAuthentication: boolOr(input.RequireAuthentication, true),
		AllowMultipleVotes:    boolOr(input.AllowMultipleVotes, false),
		Status:                domain.StatusActive,
		CreatedBy:             actor.createdBy(),
	}
	if err := s.eventsRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.Time("starts_at", event.StartsAt))
	return event, nil
}

// ListEvents returns non-deleted events, latest start first.
func (s *CatalogService) ListEvents(ctx context.Context, page Page) ([]domain.Event, error) {
	return s.eventsRepo.List(ctx, repository.ListFilter{Limit: page.Limit, Offset: page.Offset})
}

// GetEvent returns a live event or domain.ErrEventNotFound.
func (s *CatalogService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventsRepo.GetByID(ctx, id)
	if err = notFoundAs(err, domain.ErrEventNotFound); err != nil {
		return nil, err
	}
	if event.Status == domain.StatusDeleted {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

// UpdateEvent applies the non-nil fields and re-validates the window.
func (s *CatalogService) UpdateEvent(ctx context.Context, id string, update EventUpdate) (*domain.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		event.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		event.Description = update.Description
	}
	if update.StartsAt != nil {
		event.StartsAt = *update.StartsAt
	}
	if update.EndsAt != nil {
		event.EndsAt = *update.EndsAt
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, domain.ErrInvalidWindow
	}
	if err := s.eventsRepo.Update(ctx, event); err != nil {
		return nil, notFoundAs(err, domain.ErrEventNotFound)
	}
	return event, nil
}

// UpdateEventStatus sets any valid status, including restoring a deleted event.
func (s *CatalogService) UpdateEventStatus(ctx context.Context, id string, status domain.Status) (*domain.Event, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	event, err := s.eventsRepo.GetByID(ctx, id)
	if err = notFoundAs(err, domain.ErrEventNotFound); err != nil {
		return nil, err
	}
	if err := s.eventsRepo.UpdateStatus(ctx, event.ID, status); err != nil {
		return nil, notFoundAs(err, domain.ErrEventNotFound)
	}
	event.Status = status
	return event, nil
}

// DeleteEvent soft-deletes a live event.
func (s *CatalogService) DeleteEvent(ctx context.Context, id string) error {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.eventsRepo.UpdateStatus(ctx, event.ID, domain.StatusDeleted); err != nil {
		return notFoundAs(err, domain.ErrEventNotFound)
	}
	s.logger.Info("event deleted", zap.String("event_id", event.ID))
	return nil
}

// CreateSection adds a section to a live event.
func (s *CatalogService) CreateSection(ctx context.Context, actor Principal, input SectionInput) (*domain.Section, error) {
	event, err := s.GetEvent(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	section := &domain.Section{
		EventID:     event.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Status:      domain.StatusActive,
		CreatedBy:   actor.createdBy(),
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// ListSections returns non-deleted sections, optionally for one live event.
func (s *CatalogService) ListSections(ctx context.Context, eventID *string, page Page) ([]domain.Section, error) {
	if eventID != nil {
		if _, err := s.GetEvent(ctx, *eventID); err != nil {
			return nil, err
		}
	}
	return s.sections.List(ctx, repository.ListFilter{ParentID: eventID, Limit: page.Limit, Offset: page.Offset})
}

// GetSection returns a live section of a live event or domain.ErrSectionNotFound.
func (s *CatalogService) GetSection(ctx context.Context, id string) (*domain.Section, error) {
	section, err := s.sections.GetByID(ctx, id)
	if err = notFoundAs(err, domain.ErrSectionNotFound); err != nil {
		return nil, err
	}
	if section.Status == domain.StatusDeleted {
		return nil, domain.ErrSectionNotFound
	}
	if _, err := s.GetEvent(ctx, section.EventID); err != nil {
		return nil, notFoundAs(err, domain.ErrSectionNotFound, domain.ErrEventNotFound)
	}
	return section, nil
}

// UpdateSection applies the non-nil fields to a live section.
func (s *CatalogService) UpdateSection(ctx context.Context, id string, update SectionUpdate) (*domain.Section, error) {
	section, err := s.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		section.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		section.Description = update.Description
	}
	if err := s.sections.Update(ctx, section); err != nil {
		return nil, notFoundAs(err, domain.ErrSectionNotFound)
	}
	return section, nil
}

// UpdateSectionStatus sets a valid status on a live section.
func (s *CatalogService) UpdateSectionStatus(ctx context.Context, id string, status domain.Status) (*domain.Section, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	section, err := s.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.sections.UpdateStatus(ctx, section.ID, status); err != nil {
		return nil, notFoundAs(err, domain.ErrSectionNotFound)
	}
	section.Status = status
	return section, nil
}

// DeleteSection soft-deletes a live section.
func (s *CatalogService) DeleteSection(ctx context.Context, id string) error {
	section, err := s.GetSection(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sections.UpdateStatus(ctx, section.ID, domain.StatusDeleted); err != nil {
		return notFoundAs(err, domain.ErrSectionNotFound)
	}
	s.logger.Info("section deleted", zap.String("section_id", section.ID))
	return nil
}

// CreateOption adds an option to a live section.
func (s *CatalogService) CreateOption(ctx context.Context, actor Principal, input OptionInput) (*domain.Option, error) {
	section, err := s.GetSection(ctx, input.SectionID)
	if err != nil {
		return nil, err
	}
	option := &domain.Option{
		SectionID:   section.ID,
		Label:       strings.TrimSpace(input.Label),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Status:      domain.StatusActive,
		CreatedBy:   actor.createdBy(),
	}
	if err := s.options.Create(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}

// ListOptions returns non-deleted options, optionally for one live section.
func (s *CatalogService) ListOptions(ctx context.Context, sectionID *string, page Page) ([]domain.Option, error) {
	if sectionID != nil {
		if _, err := s.GetSection(ctx, *sectionID); err != nil {
			return nil, err
		}
	}
	return s.options.List(ctx, repository.ListFilter{ParentID: sectionID, Limit: page.Limit, Offset: page.Offset})
}

// GetOption returns a live option of a live section or domain.ErrOptionNotFound.
func (s *CatalogService) GetOption(ctx context.Context, id string) (*domain.Option, error) {
	option, err := s.options.GetByID(ctx, id)
	if err = notFoundAs(err, domain.ErrOptionNotFound); err != nil {
		return nil, err
	}
	if option.Status == domain.StatusDeleted {
		return nil, domain.ErrOptionNotFound
	}
	if _, err := s.GetSection(ctx, option.SectionID); err != nil {
		return nil, notFoundAs(err, domain.ErrOptionNotFound, domain.ErrSectionNotFound)
	}
	return option, nil
}

// UpdateOption applies the non-nil fields to a live option.
func (s *CatalogService) UpdateOption(ctx context.Context, id string, update OptionUpdate) (*domain.Option, error) {
	option, err := s.GetOption(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Label != nil {
		option.Label = strings.TrimSpace(*update.Label)
	}
	if update.Description != nil {
		option.Description = update.Description
	}
	if update.ImageURL != nil {
		option.ImageURL = update.ImageURL
	}
	if err := s.options.Update(ctx, option); err != nil {
		return nil, notFoundAs(err, domain.ErrOptionNotFound)
	}
	return option, nil
}

// UpdateOptionStatus sets a valid status on a live option.
func (s *CatalogService) UpdateOptionStatus(ctx context.Context, id string, status domain.Status) (*domain.Option, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	option, err := s.GetOption(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.options.UpdateStatus(ctx, option.ID, status); err != nil {
		return nil, notFoundAs(err, domain.ErrOptionNotFound)
	}
	option.Status = status
	return option, nil
}

// DeleteOption soft-deletes a live option.
func (s *CatalogService) DeleteOption(ctx context.Context, id string) error {
	option, err := s.GetOption(ctx, id)
	if err != nil {
		return err
	}
	if err := s.options.UpdateStatus(ctx, option.ID, domain.StatusDeleted); err != nil {
		return notFoundAs(err, domain.ErrOptionNotFound)
	}
	s.logger.Info("option deleted", zap.String("option_id", option.ID))
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
