package session

import (
	"context"
	"testing"
	"time"

	"github.com/calboard/calboard/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activatedSession(t *testing.T, repo Repository) Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.CreatePending(ctx, "sid", "nonce-1", time.Now()))
	_, err := repo.ActivateByNonce(ctx, "nonce-1", "token-abc", "Bearer", time.Now().Add(time.Hour))
	require.NoError(t, err)

	s, err := repo.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, s)
	return *s
}

func TestServiceInvalidate(t *testing.T) {
	t.Run("deletes the session and notifies subscribers", func(t *testing.T) {
		repo := NewRepositoryStub()
		bus := event_bus.NewEventBus()
		service := NewService(repo, bus)
		current := activatedSession(t, repo)

		var received []event_bus.SessionInvalidated
		unsubscribe := bus.Subscribe(event_bus.SessionInvalidatedType, func(e event_bus.Event) error {
			received = append(received, e.Data.(event_bus.SessionInvalidated))
			return nil
		})
		defer unsubscribe()

		ctx := WithSession(context.Background(), current)
		require.NoError(t, service.Invalidate(ctx, "remote rejected token"))

		s, err := repo.Get(context.Background(), current.ID)
		require.NoError(t, err)
		assert.Nil(t, s)

		require.Len(t, received, 1)
		assert.Equal(t, current.ID, received[0].SessionID)
		assert.Equal(t, "remote rejected token", received[0].Reason)
	})

	t.Run("fails without a session in context", func(t *testing.T) {
		service := NewService(NewRepositoryStub(), event_bus.NewEventBus())

		err := service.Invalidate(context.Background(), "whatever")
		assert.ErrorIs(t, err, ErrNoSession)
	})
}
