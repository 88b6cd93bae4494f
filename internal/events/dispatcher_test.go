package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventConversationDispatched, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "e1", Type: EventConversationDispatched})
	require.NoError(t, err)
	err = d.Publish(context.Background(), Event{ID: "e2", Type: EventOfficeHoursChanged})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, "e1", received[0].ID)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	var secondCalled bool
	d.Subscribe(EventVisitorRegistered, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventVisitorRegistered, func(context.Context, Event) error {
		secondCalled = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventVisitorRegistered})
	require.NoError(t, err)
	assert.True(t, secondCalled)
}
