package session

import (
	"context"
	"testing"
	"time"

	"github.com/calboard/calboard/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("unknown session id resolves to nil", func(t *testing.T) {
		repo := NewRepository(test_utils.SetupTestDB(t))

		s, err := repo.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("pending sessions are invisible until activated", func(t *testing.T) {
		repo := NewRepository(test_utils.SetupTestDB(t))
		require.NoError(t, repo.CreatePending(ctx, "sid", "nonce-1", now))

		s, err := repo.Get(ctx, "sid")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("activation by nonce makes the session resolvable", func(t *testing.T) {
		repo := NewRepository(test_utils.SetupTestDB(t))
		require.NoError(t, repo.CreatePending(ctx, "sid", "nonce-1", now))

		expiry := now.Add(time.Hour)
		id, err := repo.ActivateByNonce(ctx, "nonce-1", "token-abc", "Bearer", expiry)
		require.NoError(t, err)
		assert.Equal(t, "sid", id)

		s, err := repo.Get(ctx, "sid")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "token-abc", s.AccessToken)
		assert.Equal(t, "Bearer", s.TokenType)
		assert.Equal(t, expiry.UnixMilli(), s.Expiry.UnixMilli())
		assert.Equal(t, now.UnixMilli(), s.CreatedAt.UnixMilli())
	})

	t.Run("deleted sessions stay gone", func(t *testing.T) {
		repo := NewRepository(test_utils.SetupTestDB(t))
		require.NoError(t, repo.CreatePending(ctx, "sid", "nonce-1", now))
		_, err := repo.ActivateByNonce(ctx, "nonce-1", "token-abc", "Bearer", now.Add(time.Hour))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, "sid"))

		s, err := repo.Get(ctx, "sid")
		require.NoError(t, err)
		assert.Nil(t, s)
	})
}
