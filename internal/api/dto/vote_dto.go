package dto

import (
	"time"

	"github.com/spec-kit/vote-service/internal/domain"
)

// CastVoteRequest payload for POST /votes.
type CastVoteRequest struct {
	EventID   string `json:"event_id"`
	SectionID string `json:"section_id"`
	OptionID  string `json:"option_id"`
}

// Missing lists the required fields left empty.
func (r CastVoteRequest) Missing() []string {
	var missing []string
	if r.EventID == "" {
		missing = append(missing, "event_id")
	}
	if r.SectionID == "" {
		missing = append(missing, "section_id")
	}
	if r.OptionID == "" {
		missing = append(missing, "option_id")
	}
	return missing
}

// VoteResponse describes a committed vote.
type VoteResponse struct {
	ID        string    `json:"id"`
	SectionID string    `json:"section_id"`
	OptionID  string    `json:"option_id"`
	CastAt    time.Time `json:"cast_at"`
}

// NewVoteResponse maps a vote.
func NewVoteResponse(vote *domain.Vote) VoteResponse {
	return VoteResponse{
		ID:        vote.ID,
		SectionID: vote.SectionID,
		OptionID:  vote.OptionID,
		CastAt:    vote.CastAt,
	}
}

// VoteStatusResponse answers whether the caller already voted in a section.
type VoteStatusResponse struct {
	SectionID string `json:"section_id"`
	HasVoted  bool   `json:"has_voted"`
}
