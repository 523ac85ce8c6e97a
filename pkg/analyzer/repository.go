package analyzer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Artifact is one analysis attempt kept for audit: what kind of input, how
// big, which model answered, and what it said.
type Artifact struct {
	ID           string
	SessionID    string
	Kind         string
	Model        string
	PayloadBytes int
	Success      bool
	RawResponse  string
	CreatedAt    time.Time
}

type Repository interface {
	Store(ctx context.Context, artifact Artifact) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, artifact Artifact) error {
	query := `INSERT INTO analysis_log (id, session_id, kind, model, payload_bytes, success, raw_response, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		artifact.ID,
		artifact.SessionID,
		artifact.Kind,
		artifact.Model,
		artifact.PayloadBytes,
		artifact.Success,
		artifact.RawResponse,
		artifact.CreatedAt.UnixMilli(),
	)
	if err != nil {
		err := fmt.Errorf("could not store analysis artifact: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
