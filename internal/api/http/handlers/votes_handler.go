package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vote-service/internal/api/dto"
	"github.com/spec-kit/vote-service/internal/service"
)

// VotesHandler exposes the vote ledger.
type VotesHandler struct {
	votes *service.VoteService
}

// NewVotesHandler constructs handler.
func NewVotesHandler(votes *service.VoteService) *VotesHandler {
	return &VotesHandler{votes: votes}
}

// Cast handles POST /votes.
func (h *VotesHandler) Cast(c *fiber.Ctx) error {
	voter, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CastVoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if missing := req.Missing(); len(missing) > 0 {
		return missingFields(missing...)
	}

	vote, err := h.votes.Cast(c.UserContext(), voter.UserID, service.CastVoteInput{
		EventID:   req.EventID,
		SectionID: req.SectionID,
		OptionID:  req.OptionID,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Vote cast successfully",
		"data":    dto.NewVoteResponse(vote),
	})
}

// SectionStatus handles GET /votes/sections/:id/status.
func (h *VotesHandler) SectionStatus(c *fiber.Ctx) error {
	voter, err := principal(c)
	if err != nil {
		return err
	}
	sectionID := c.Params("id")
	voted, err := h.votes.HasVoted(c.UserContext(), voter.UserID, sectionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.VoteStatusResponse{SectionID: sectionID, HasVoted: voted},
	})
}
