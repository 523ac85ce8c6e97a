package session

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Session is the explicit replacement for the browser-side token globals: the
// bearer token obtained from the OAuth consent popup plus the identifier the
// frontend echoes back in the X-Session-Id header.
type Session struct {
	ID          string
	AccessToken string
	TokenType   string
	Expiry      time.Time
	CreatedAt   time.Time
}

type contextKey string

const SessionKey contextKey = "session"

var ErrNoSession = errors.New("no session in context")

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// Current retrieves the session from the context. Returns ErrNoSession when
// the request carried no valid X-Session-Id.
func Current(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(SessionKey).(Session)
	if !ok {
		log.Trace("session not found in context")
		return Session{}, ErrNoSession
	}
	return s, nil
}

func CurrentID(ctx context.Context) (string, error) {
	s, err := Current(ctx)
	if err != nil {
		return "", err
	}
	return s.ID, nil
}
