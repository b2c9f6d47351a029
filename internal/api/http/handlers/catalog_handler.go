package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vote-service/internal/api/dto"
	"github.com/spec-kit/vote-service/internal/service"
)

// CatalogHandler exposes admin management of events, sections and options.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateEvent handles POST /events.
func (h *CatalogHandler) CreateEvent(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Name == "" || req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return missingFields("name", "start_date", "end_date")
	}

	event, err := h.catalog.CreateEvent(c.UserContext(), actor, service.EventInput{
		Name:                  req.Name,
		Description:           req.Description,
		StartsAt:              req.StartsAt,
		EndsAt:                req.EndsAt,
		Country:               req.Country,
		Region:                req.Region,
		Province:              req.Province,
		District:              req.District,
		IsPublic:              req.IsPublic,
		RequireAuthentication: req.RequireAuthentication,
		AllowMultipleVotes:    req.AllowMultipleVotes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// ListEvents handles GET /events.
func (h *CatalogHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.catalog.ListEvents(c.UserContext(), parsePage(c))
	if err != nil {
		return err
	}
	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, dto.NewEventResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetEvent handles GET /events/:id.
func (h *CatalogHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.catalog.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// UpdateEvent handles PUT /events/:id.
func (h *CatalogHandler) UpdateEvent(c *fiber.Ctx) error {
	var req dto.UpdateEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	event, err := h.catalog.UpdateEvent(c.UserContext(), c.Params("id"), service.EventUpdate{
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// UpdateEventStatus handles PATCH /events/:id/status.
func (h *CatalogHandler) UpdateEventStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Status == "" {
		return missingFields("status")
	}
	event, err := h.catalog.UpdateEventStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// DeleteEvent handles DELETE /events/:id.
func (h *CatalogHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.catalog.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "event deleted"})
}

// CreateSection handles POST /sections.
func (h *CatalogHandler) CreateSection(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateSectionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.EventID == "" || req.Name == "" {
		return missingFields("event_id", "name")
	}

	section, err := h.catalog.CreateSection(c.UserContext(), actor, service.SectionInput{
		EventID:     req.EventID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSectionResponse(section)})
}

// ListSections handles GET /sections?event_id=.
func (h *CatalogHandler) ListSections(c *fiber.Ctx) error {
	sections, err := h.catalog.ListSections(c.UserContext(), optionalQuery(c, "event_id"), parsePage(c))
	if err != nil {
		return err
	}
	resp := make([]dto.SectionResponse, 0, len(sections))
	for i := range sections {
		resp = append(resp, dto.NewSectionResponse(&sections[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetSection handles GET /sections/:id.
func (h *CatalogHandler) GetSection(c *fiber.Ctx) error {
	section, err := h.catalog.GetSection(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSectionResponse(section)})
}

// UpdateSection handles PUT /sections/:id.
func (h *CatalogHandler) UpdateSection(c *fiber.Ctx) error {
	var req dto.UpdateSectionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	section, err := h.catalog.UpdateSection(c.UserContext(), c.Params("id"), service.SectionUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSectionResponse(section)})
}

// UpdateSectionStatus handles PATCH /sections/:id/status.
func (h *CatalogHandler) UpdateSectionStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Status == "" {
		return missingFields("status")
	}
	section, err := h.catalog.UpdateSectionStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSectionResponse(section)})
}

// DeleteSection handles DELETE /sections/:id.
func (h *CatalogHandler) DeleteSection(c *fiber.Ctx) error {
	if err := h.catalog.DeleteSection(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "section deleted"})
}

// CreateOption handles POST /options.
func (h *CatalogHandler) CreateOption(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateOptionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.SectionID == "" || req.Label == "" {
		return missingFields("section_id", "label")
	}

	option, err := h.catalog.CreateOption(c.UserContext(), actor, service.OptionInput{
		SectionID:   req.SectionID,
		Label:       req.Label,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOptionResponse(option)})
}

// ListOptions handles GET /options?section_id=.
func (h *CatalogHandler) ListOptions(c *fiber.Ctx) error {
	options, err := h.catalog.ListOptions(c.UserContext(), optionalQuery(c, "section_id"), parsePage(c))
	if err != nil {
		return err
	}
	resp := make([]dto.OptionResponse, 0, len(options))
	for i := range options {
		resp = append(resp, dto.NewOptionResponse(&options[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetOption handles GET /options/:id.
func (h *CatalogHandler) GetOption(c *fiber.Ctx) error {
	option, err := h.catalog.GetOption(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOptionResponse(option)})
}

// UpdateOption handles PUT /options/:id.
func (h *CatalogHandler) UpdateOption(c *fiber.Ctx) error {
	var req dto.UpdateOptionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	option, err := h.catalog.UpdateOption(c.UserContext(), c.Params("id"), service.OptionUpdate{
		Label:       req.Label,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOptionResponse(option)})
}

// UpdateOptionStatus handles PATCH /options/:id/status.
func (h *CatalogHandler) UpdateOptionStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Status == "" {
		return missingFields("status")
	}
	option, err := h.catalog.UpdateOptionStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOptionResponse(option)})
}

// DeleteOption handles DELETE /options/:id.
func (h *CatalogHandler) DeleteOption(c *fiber.Ctx) error {
	if err := h.catalog.DeleteOption(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "option deleted"})
}
