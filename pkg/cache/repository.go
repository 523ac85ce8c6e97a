package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/calboard/calboard/pkg/gcal"
	log "github.com/sirupsen/logrus"
)

type StoreImpl struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *StoreImpl {
	return &StoreImpl{db: db}
}

// snapshotDoc is the serialized cache row, shaped like the original bulk
// cache object: RFC3339 range bounds and the minimal event projection.
type snapshotDoc struct {
	SavedAt int64 `json:"savedAt"`
	Range   struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"range"`
	Palette           *gcal.Palette `json:"colors"`
	PrimaryCalColorID string        `json:"primaryCalColorId"`
	Events            []gcal.Event  `json:"events"`
}

func (s *StoreImpl) Load(ctx context.Context) (*Snapshot, error) {
	query := `SELECT payload FROM bulk_cache WHERE cache_key = $1`

	var payload string
	err := s.db.QueryRowContext(ctx, query, Key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	} else if err != nil {
		err := fmt.Errorf("could not query bulk cache: %w", err)
		log.Error(err)
		return nil, err
	}

	return decodeSnapshot(payload)
}

func (s *StoreImpl) Save(ctx context.Context, snap Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	query := `INSERT INTO bulk_cache (cache_key, payload, saved_at) VALUES ($1, $2, $3)
	          ON CONFLICT (cache_key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`

	_, err = s.db.ExecContext(ctx, query, Key, payload, snap.SavedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store bulk cache: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *StoreImpl) UpsertEvent(ctx context.Context, ev gcal.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	var payload string
	err = tx.QueryRowContext(ctx, `SELECT payload FROM bulk_cache WHERE cache_key = $1`, Key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotCached
	} else if err != nil {
		return fmt.Errorf("could not query bulk cache: %w", err)
	}

	snap, err := decodeSnapshot(payload)
	if err != nil {
		return err
	}
	// SavedAt is deliberately left untouched: a patch is not a refresh, and
	// extending the TTL here would keep a stale snapshot alive indefinitely.
	snap.Events = gcal.Upsert(snap.Events, ev)

	updated, err := encodeSnapshot(*snap)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE bulk_cache SET payload = $1 WHERE cache_key = $2`, updated, Key)
	if err != nil {
		return fmt.Errorf("could not update bulk cache: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func encodeSnapshot(snap Snapshot) (string, error) {
	var doc snapshotDoc
	doc.SavedAt = snap.SavedAt.UnixMilli()
	doc.Range.Start = snap.Range.Start.Format(time.RFC3339)
	doc.Range.End = snap.Range.End.Format(time.RFC3339)
	doc.Palette = snap.Palette
	doc.PrimaryCalColorID = snap.PrimaryCalColorID
	doc.Events = snap.Events

	payload, err := json.Marshal(doc)
	if err != nil {
		err := fmt.Errorf("could not marshal bulk cache: %w", err)
		log.Error(err)
		return "", err
	}
	return string(payload), nil
}

func decodeSnapshot(payload string) (*Snapshot, error) {
	var doc snapshotDoc
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		err := fmt.Errorf("could not unmarshal bulk cache: %w", err)
		log.Error(err)
		return nil, err
	}

	snap := &Snapshot{
		SavedAt:           time.UnixMilli(doc.SavedAt),
		Palette:           doc.Palette,
		PrimaryCalColorID: doc.PrimaryCalColorID,
		Events:            doc.Events,
	}
	start, err := time.Parse(time.RFC3339, doc.Range.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid cached range start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, doc.Range.End)
	if err != nil {
		return nil, fmt.Errorf("invalid cached range end: %w", err)
	}
	snap.Range = gcal.Window{Start: start, End: end}
	return snap, nil
}
