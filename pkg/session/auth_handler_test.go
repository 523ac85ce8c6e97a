package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/calboard/calboard/internal/config"
	"github.com/calboard/calboard/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.Application {
	return config.Application{
		Host: "http://localhost:3001",
		Google: config.Google{
			ClientId:     "client-id",
			ClientSecret: "client-secret",
		},
	}
}

func TestOAuthLogin(t *testing.T) {
	repo := NewRepositoryStub()
	auth := NewGoogleAuth(repo, NewService(repo, event_bus.NewEventBus()), testAuthConfig())

	req := httptest.NewRequest("GET", "/api/auth/login?finalUrl=http://localhost:3000/", nil)
	w := httptest.NewRecorder()
	auth.OAuthLogin(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		RedirectUrl string `json:"redirectUrl"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	redirect, err := url.Parse(resp.RedirectUrl)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", redirect.Host)
	assert.Equal(t, "client-id", redirect.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:3001/api/auth/callback", redirect.Query().Get("redirect_uri"))

	// State carries the return URL and the nonce of the pending session.
	state := redirect.Query().Get("state")
	parts := strings.SplitN(state, "|", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "http://localhost:3000/", parts[0])

	id, err := repo.ActivateByNonce(context.Background(), parts[1], "token", "Bearer", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestOAuthCallbackRejectsMalformedState(t *testing.T) {
	repo := NewRepositoryStub()
	auth := NewGoogleAuth(repo, NewService(repo, event_bus.NewEventBus()), testAuthConfig())

	req := httptest.NewRequest("GET", "/api/auth/callback?code=abc&state=no-separator", nil)
	w := httptest.NewRecorder()
	auth.OAuthCallback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOAuthLogout(t *testing.T) {
	t.Run("invalidates the current session", func(t *testing.T) {
		repo := NewRepositoryStub()
		auth := NewGoogleAuth(repo, NewService(repo, event_bus.NewEventBus()), testAuthConfig())
		current := activatedSession(t, repo)

		req := httptest.NewRequest("DELETE", "/api/auth/logout", nil)
		req = req.WithContext(WithSession(req.Context(), current))
		w := httptest.NewRecorder()
		auth.OAuthLogout(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		s, err := repo.Get(context.Background(), current.ID)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("fails without a session", func(t *testing.T) {
		repo := NewRepositoryStub()
		auth := NewGoogleAuth(repo, NewService(repo, event_bus.NewEventBus()), testAuthConfig())

		req := httptest.NewRequest("DELETE", "/api/auth/logout", nil)
		w := httptest.NewRecorder()
		auth.OAuthLogout(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
