package session

import (
	"context"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu       sync.RWMutex
	sessions map[string]Session // id -> session
	nonces   map[string]string  // nonce -> id
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		sessions: make(map[string]Session),
		nonces:   make(map[string]string),
	}
}

func (r *RepositoryStub) CreatePending(_ context.Context, id string, nonce string, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = Session{ID: id, CreatedAt: createdAt}
	r.nonces[nonce] = id
	return nil
}

func (r *RepositoryStub) ActivateByNonce(_ context.Context, nonce string, token string, tokenType string, expiry time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nonces[nonce]
	s := r.sessions[id]
	s.AccessToken = token
	s.TokenType = tokenType
	s.Expiry = expiry
	r.sessions[id] = s
	return id, nil
}

func (r *RepositoryStub) Get(_ context.Context, id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok || s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (r *RepositoryStub) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
