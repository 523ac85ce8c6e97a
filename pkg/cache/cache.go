package cache

import (
	"context"
	"errors"
	"time"

	"github.com/calboard/calboard/pkg/gcal"
)

// Key is the single cache key. The cache is single-tenant: it mirrors one
// logged-in identity's primary calendar, so there is no per-account
// namespacing.
const Key = "primary_bulk_cache_v1"

var ErrNotCached = errors.New("bulk cache is empty")

// Snapshot is the persisted result of one windowed bulk fetch, plus the
// palette data fetched alongside it.
type Snapshot struct {
	SavedAt           time.Time
	Range             gcal.Window
	Palette           *gcal.Palette
	PrimaryCalColorID string
	Events            []gcal.Event
}

// Covers reports whether the snapshot's fetched range is a superset of the
// given window. Only then may the view trust the cache without a remote
// refresh.
func (s Snapshot) Covers(w gcal.Window) bool {
	return s.Range.Contains(w)
}

func (s Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.SavedAt) < ttl
}

type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	// UpsertEvent patches one event into the stored snapshot by id without
	// refetching, preserving list order except that unmatched events are
	// prepended. Returns ErrNotCached when no snapshot exists yet.
	UpsertEvent(ctx context.Context, ev gcal.Event) error
}
