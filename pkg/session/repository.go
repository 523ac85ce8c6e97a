package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreatePending(ctx context.Context, id string, nonce string, createdAt time.Time) error
	ActivateByNonce(ctx context.Context, nonce string, token string, tokenType string, expiry time.Time) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreatePending(ctx context.Context, id string, nonce string, createdAt time.Time) error {
	query := `INSERT INTO session (id, nonce, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, id, nonce, createdAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not create pending session: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

// ActivateByNonce stores the exchanged token on the pending session matching
// the OAuth state nonce and returns the session id.
func (r *RepositoryImpl) ActivateByNonce(ctx context.Context, nonce string, token string, tokenType string, expiry time.Time) (string, error) {
	query := `UPDATE session SET access_token = $1, token_type = $2, expiry = $3 WHERE nonce = $4`

	_, err := r.db.ExecContext(ctx, query, token, tokenType, expiry.UnixMilli(), nonce)
	if err != nil {
		err := fmt.Errorf("could not activate session: %w", err)
		log.Error(err)
		return "", err
	}

	var id string
	err = r.db.QueryRowContext(ctx, `SELECT id FROM session WHERE nonce = $1`, nonce).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not find session for nonce: %w", err)
		log.Error(err)
		return "", err
	}
	return id, nil
}

// Get returns the active session with the given id, or nil when the id is
// unknown or the session never completed the consent flow.
func (r *RepositoryImpl) Get(ctx context.Context, id string) (*Session, error) {
	query := `SELECT id, access_token, token_type, expiry, created_at FROM session WHERE id = $1 AND access_token != ''`

	var s Session
	var expiryMillis, createdAtMillis int64
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.AccessToken, &s.TokenType, &expiryMillis, &createdAtMillis)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		err := fmt.Errorf("could not query session: %w", err)
		log.Error(err)
		return nil, err
	}

	s.Expiry = time.UnixMilli(expiryMillis)
	s.CreatedAt = time.UnixMilli(createdAtMillis)
	return &s, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM session WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		err := fmt.Errorf("could not delete session: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
