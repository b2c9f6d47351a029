package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/events"
)

func TestAuditWorkerLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core))

	actor := "u1"
	err := dispatcher.Publish(context.Background(), events.Event{
		ID:         "e1",
		Type:       events.EventVoteCast,
		ResourceID: "v1",
		Actor:      events.Actor{UserID: &actor, Role: domain.RoleVoter},
		Timestamp:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Payload:    events.VoteCastPayload{EventID: "ev", SectionID: "s", OptionID: "o"},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "vote_cast", fields["type"])
	assert.Equal(t, "u1", fields["actor_id"])
	assert.Equal(t, "voter", fields["actor_role"])
	assert.Equal(t, "audit", entries[0].LoggerName)
}

func TestAuditWorkerNilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() { StartAuditWorker(nil, zap.NewNop()) })
}
