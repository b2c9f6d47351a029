package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/events"
)

// Principal is the verified caller of an operation.
type Principal struct {
	UserID string
	Role   domain.RoleName
}

func (p Principal) actor() events.Actor {
	if p.UserID == "" {
		return events.Actor{Role: p.Role}
	}
	id := p.UserID
	return events.Actor{UserID: &id, Role: p.Role}
}

func (p Principal) createdBy() *string {
	if p.UserID == "" {
		return nil
	}
	id := p.UserID
	return &id
}

// publisher stamps and dispatches domain events. Dispatch failures are logged,
// never returned; the state change has already committed.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event handler failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func clockOrNow(clock func() time.Time) func() time.Time {
	if clock == nil {
		return time.Now
	}
	return clock
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
