package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/events"
	"github.com/spec-kit/vote-service/internal/observability"
	"github.com/spec-kit/vote-service/internal/repository"
)

// VoteService records ballots, enforcing one vote per subject per section.
type VoteService struct {
	eventsRepo repository.EventRepository
	sections   repository.SectionRepository
	options    repository.OptionRepository
	votes      repository.VoteRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
	events     publisher
}

// VoteDependencies bundles requirements for the vote service.
type VoteDependencies struct {
	EventRepo   repository.EventRepository
	SectionRepo repository.SectionRepository
	OptionRepo  repository.OptionRepository
	VoteRepo    repository.VoteRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Clock       func() time.Time
}

// CastVoteInput identifies the option being chosen.
type CastVoteInput struct {
	EventID   string
	SectionID string
	OptionID  string
}

// NewVoteService constructs the service.
func NewVoteService(deps VoteDependencies) *VoteService {
	logger := loggerOrNop(deps.Logger)
	now := clockOrNow(deps.Clock)
	return &VoteService{
		eventsRepo: deps.EventRepo,
		sections:   deps.SectionRepo,
		options:    deps.OptionRepo,
		votes:      deps.VoteRepo,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
		events:     publisher{dispatcher: deps.Dispatcher, logger: logger, now: now},
	}
}

// Cast validates the event window and the event/section/option chain, then
// persists the vote. The first failing check decides the error.
func (s *VoteService) Cast(ctx context.Context, subjectID string, input CastVoteInput) (*domain.Vote, error) {
	vote, err := s.cast(ctx, subjectID, input)
	s.metrics.RecordVote(voteOutcome(err))
	if err != nil {
		s.logger.Debug("vote rejected",
			zap.String("user_id", subjectID),
			zap.String("section_id", input.SectionID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("vote cast",
		zap.String("vote_id", vote.ID),
		zap.String("user_id", subjectID),
		zap.String("section_id", vote.SectionID),
	)
	s.events.publish(ctx, events.Event{
		Type:       events.EventVoteCast,
		ResourceID: vote.ID,
		Actor:      Principal{UserID: subjectID}.actor(),
		Timestamp:  vote.CastAt,
		Payload: events.VoteCastPayload{
			EventID:   input.EventID,
			SectionID: vote.SectionID,
			OptionID:  vote.OptionID,
		},
	})
	return vote, nil
}

func (s *VoteService) cast(ctx context.Context, subjectID string, input CastVoteInput) (*domain.Vote, error) {
	event, err := s.eventsRepo.GetByID(ctx, input.EventID)
	if err = notFoundAs(err, domain.ErrEventNotFound); err != nil {
		return nil, err
	}
	if event.Status == domain.StatusDeleted {
		return nil, domain.ErrEventNotFound
	}

	now := s.now()
	if !event.IsOpenAt(now) {
		return nil, domain.ErrVotingClosed
	}

	section, err := s.sections.GetByID(ctx, input.SectionID)
	if err = notFoundAs(err, domain.ErrSectionNotFound); err != nil {
		return nil, err
	}
	if section.Status == domain.StatusDeleted || section.EventID != event.ID {
		return nil, domain.ErrSectionNotFound
	}

	option, err := s.options.GetByID(ctx, input.OptionID)
	if err = notFoundAs(err, domain.ErrOptionNotFound); err != nil {
		return nil, err
	}
	if option.Status == domain.StatusDeleted || option.SectionID != section.ID {
		return nil, domain.ErrOptionNotFound
	}

	vote := &domain.Vote{
		UserID:    subjectID,
		OptionID:  option.ID,
		SectionID: section.ID,
		CastAt:    now,
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

// HasVoted reports whether the subject already voted in the section.
func (s *VoteService) HasVoted(ctx context.Context, subjectID, sectionID string) (bool, error) {
	section, err := s.sections.GetByID(ctx, sectionID)
	if err = notFoundAs(err, domain.ErrSectionNotFound); err != nil {
		return false, err
	}
	if section.Status == domain.StatusDeleted {
		return false, domain.ErrSectionNotFound
	}
	event, err := s.eventsRepo.GetByID(ctx, section.EventID)
	if err = notFoundAs(err, domain.ErrSectionNotFound); err != nil {
		return false, err
	}
	if event.Status == domain.StatusDeleted {
		return false, domain.ErrSectionNotFound
	}
	return s.votes.HasVoted(ctx, subjectID, section.ID)
}

func voteOutcome(err error) string {
	switch {
	case err == nil:
		return observability.VoteOutcomeAccepted
	case errors.Is(err, domain.ErrDuplicateVote):
		return observability.VoteOutcomeDuplicate
	case errors.Is(err, domain.ErrVotingClosed):
		return observability.VoteOutcomeClosed
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrSectionNotFound),
		errors.Is(err, domain.ErrOptionNotFound):
		return observability.VoteOutcomeInvalid
	default:
		return observability.VoteOutcomeError
	}
}

// notFoundAs replaces pgx.ErrNoRows, or any of the parent sentinels, with
// target and passes other errors through.
func notFoundAs(err, target error, parents ...error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}
	for _, parent := range parents {
		if errors.Is(err, parent) {
			return target
		}
	}
	return err
}
