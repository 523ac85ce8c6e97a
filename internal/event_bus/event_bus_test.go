package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	t.Run("delivers events to subscribers of the matching type", func(t *testing.T) {
		bus := NewEventBus()

		var got []Event
		bus.Subscribe(SessionInvalidatedType, func(e Event) error {
			got = append(got, e)
			return nil
		})

		payload := SessionInvalidated{SessionID: "sid", Reason: "logout"}
		require.NoError(t, bus.Publish(NewEvent(context.Background(), SessionInvalidatedType, payload)))

		require.Len(t, got, 1)
		assert.Equal(t, payload, got[0].Data)
	})

	t.Run("handlers run in registration order", func(t *testing.T) {
		bus := NewEventBus()

		var order []int
		for i := 0; i < 5; i++ {
			i := i
			bus.Subscribe(SessionInvalidatedType, func(Event) error {
				order = append(order, i)
				return nil
			})
		}

		require.NoError(t, bus.Publish(NewEvent(context.Background(), SessionInvalidatedType, nil)))
		assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewEventBus()

		calls := 0
		unsubscribe := bus.Subscribe(BulkCacheRefreshedType, func(Event) error {
			calls++
			return nil
		})
		unsubscribe()

		require.NoError(t, bus.Publish(NewEvent(context.Background(), BulkCacheRefreshedType, nil)))
		assert.Zero(t, calls)
	})

	t.Run("a failing handler does not block the others", func(t *testing.T) {
		bus := NewEventBus()

		delivered := 0
		bus.Subscribe(SessionInvalidatedType, func(Event) error {
			return errors.New("boom")
		})
		bus.Subscribe(SessionInvalidatedType, func(Event) error {
			delivered++
			return nil
		})

		err := bus.Publish(NewEvent(context.Background(), SessionInvalidatedType, nil))
		assert.Error(t, err)
		assert.Equal(t, 1, delivered)
	})

	t.Run("a panicking handler is reported as an error", func(t *testing.T) {
		bus := NewEventBus()
		bus.Subscribe(SessionInvalidatedType, func(Event) error {
			panic("boom")
		})

		err := bus.Publish(NewEvent(context.Background(), SessionInvalidatedType, nil))
		assert.Error(t, err)
	})

	t.Run("cancelled context stops publishing", func(t *testing.T) {
		bus := NewEventBus()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, SessionInvalidatedType, nil))
		assert.Error(t, err)
	})
}
