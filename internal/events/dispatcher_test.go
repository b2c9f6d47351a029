package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	var seen []string
	d.Subscribe(EventVoteCast, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.ResourceID)
		return boom
	})
	d.Subscribe(EventVoteCast, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.ResourceID)
		return nil
	})
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventVoteCast, ResourceID: "v1"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:v1", "second:v1"}, seen)
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	audit := errors.New("audit sink down")
	notify := errors.New("notifier down")

	calls := 0
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		calls++
		return audit
	})
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		calls++
		return nil
	})
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		calls++
		return notify
	})

	err := d.Publish(context.Background(), Event{Type: EventUserRegistered, ResourceID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, audit)
	assert.ErrorIs(t, err, notify)
	assert.Equal(t, 3, calls)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 2)
}

func TestDispatcherWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventUserStatusChanged}))
}
