package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/vote-service/internal/events"
)

// StartAuditWorker subscribes structured audit logging for every domain event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	for _, eventType := range []events.EventType{
		events.EventVoteCast,
		events.EventUserRegistered,
		events.EventUserStatusChanged,
	} {
		dispatcher.Subscribe(eventType, auditHandler(audit))
	}
}

func auditHandler(logger *zap.Logger) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("resource_id", event.ResourceID),
			zap.Time("timestamp", event.Timestamp),
			zap.Any("payload", event.Payload),
		}
		if event.Actor.UserID != nil {
			fields = append(fields, zap.String("actor_id", *event.Actor.UserID))
		}
		if event.Actor.Role != "" {
			fields = append(fields, zap.String("actor_role", string(event.Actor.Role)))
		}
		logger.Info("domain event", fields...)
		return nil
	}
}
