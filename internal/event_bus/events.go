package event_bus

import "time"

const (
	// SessionInvalidatedType is published when a session is cleared, either by
	// an explicit logout or a 401 from the calendar API.
	SessionInvalidatedType EventType = "session.invalidated"
	// BulkCacheRefreshedType is published after a wholesale bulk cache store.
	BulkCacheRefreshedType EventType = "cache.refreshed"
)

type SessionInvalidated struct {
	SessionID string
	Reason    string
}

type BulkCacheRefreshed struct {
	RangeStart time.Time
	RangeEnd   time.Time
	Events     int
}
