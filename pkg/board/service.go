package board

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/calboard/calboard/internal/config"
	"github.com/calboard/calboard/internal/event_bus"
	"github.com/calboard/calboard/internal/utils"
	"github.com/calboard/calboard/pkg/cache"
	"github.com/calboard/calboard/pkg/gcal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// View is one month's worth of render-ready state: the event list covering
// the bulk window plus the palette needed to color it. A View is immutable
// once committed; mutations replace the whole pointer.
type View struct {
	Year              int
	Month             time.Month
	Palette           *gcal.Palette
	PrimaryCalColorID string
	Events            []gcal.Event
}

type Service struct {
	gateway gcal.Gateway
	store   cache.Store
	bus     *event_bus.EventBus
	clock   utils.Clock
	loc     *time.Location

	monthsBack    int
	monthsForward int
	maxEvents     int
	ttl           time.Duration

	// generation orders concurrent month loads; only the newest one may
	// commit its result as the current view.
	generation atomic.Int64

	mu   sync.Mutex
	view *View
}

func NewService(gateway gcal.Gateway, store cache.Store, bus *event_bus.EventBus, clock utils.Clock, cfg config.Cache, loc *time.Location) *Service {
	return &Service{
		gateway:       gateway,
		store:         store,
		bus:           bus,
		clock:         clock,
		loc:           loc,
		monthsBack:    cfg.MonthsBack,
		monthsForward: cfg.MonthsForward,
		maxEvents:     cfg.MaxEvents,
		ttl:           time.Duration(cfg.TtlMinutes) * time.Minute,
	}
}

// LoadMonth produces the view for one month. If the cached snapshot covers
// the month and is fresh, no remote call is made. Otherwise all three remote
// fetches (events, palette, primary calendar color) must succeed before
// anything changes; a single failure abandons the load and the previous view
// stays in place.
func (s *Service) LoadMonth(ctx context.Context, year int, month time.Month) (*View, error) {
	gen := s.generation.Add(1)
	monthWindow := MonthWindow(year, month, s.loc)

	snap, err := s.store.Load(ctx)
	if err != nil && !errors.Is(err, cache.ErrNotCached) {
		log.Warnf("bulk cache unreadable, falling back to remote fetch: %v", err)
		snap = nil
	}

	now := s.clock.Now()
	if snap != nil && snap.Covers(monthWindow) && snap.Fresh(now, s.ttl) {
		return s.commit(gen, &View{
			Year:              year,
			Month:             month,
			Palette:           snap.Palette,
			PrimaryCalColorID: snap.PrimaryCalColorID,
			Events:            snap.Events,
		}), nil
	}

	bulk := BulkWindow(year, month, s.monthsBack, s.monthsForward, s.loc)

	var (
		palette   *gcal.Palette
		primaryID string
		events    []gcal.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.gateway.ListEvents(gctx, bulk, s.maxEvents)
		return err
	})
	g.Go(func() error {
		var err error
		palette, err = s.gateway.Colors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		primaryID, err = s.gateway.PrimaryCalendarColorID(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fresh := cache.Snapshot{
		SavedAt:           now,
		Range:             bulk,
		Palette:           palette,
		PrimaryCalColorID: primaryID,
		Events:            events,
	}
	// A failed cache write degrades the next load, not this one.
	if err := s.store.Save(ctx, fresh); err != nil {
		log.Errorf("failed to persist bulk cache: %v", err)
	} else if s.bus != nil {
		if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.BulkCacheRefreshedType, event_bus.BulkCacheRefreshed{
			RangeStart: bulk.Start,
			RangeEnd:   bulk.End,
			Events:     len(events),
		})); err != nil {
			log.Errorf("failed to publish cache refresh: %v", err)
		}
	}

	return s.commit(gen, &View{
		Year:              year,
		Month:             month,
		Palette:           palette,
		PrimaryCalColorID: primaryID,
		Events:            events,
	}), nil
}

// commit installs the view as current unless a newer load started while this
// one was in flight. The caller still gets its own result either way; only
// the shared view skips the stale write, so fast month switching never shows
// a mix of two loads.
func (s *Service) commit(gen int64, view *View) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation.Load() {
		log.Debugf("discarding stale month load for %s", FormatYearMonth(view.Year, view.Month))
		return view
	}
	s.view = view
	return view
}

// CurrentView returns the last committed view, or nil before the first load.
func (s *Service) CurrentView() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// CreateEvent inserts the drafted event remotely, then patches it into the
// current view and the persisted snapshot without a refetch. When no snapshot
// exists yet the created event seeds one.
func (s *Service) CreateEvent(ctx context.Context, draft gcal.Draft) (*gcal.Event, error) {
	body, err := draft.EventBody(s.loc)
	if err != nil {
		return nil, err
	}
	created, err := s.gateway.InsertEvent(ctx, body)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.view != nil {
		patched := *s.view
		patched.Events = gcal.Upsert(s.view.Events, *created)
		s.view = &patched
	}
	s.mu.Unlock()

	if err := s.store.UpsertEvent(ctx, *created); err != nil {
		if errors.Is(err, cache.ErrNotCached) {
			s.seedSnapshot(ctx, *created)
		} else {
			log.Errorf("failed to patch bulk cache: %v", err)
		}
	}
	return created, nil
}

// DeleteEvent removes the event remotely and from the current view. The
// persisted snapshot keeps the stale row until the next refresh; a ghost
// entry that disappears within the TTL is cheaper than a second write path.
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.gateway.DeleteEvent(ctx, eventID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.view != nil {
		patched := *s.view
		patched.Events = gcal.Remove(s.view.Events, eventID)
		s.view = &patched
	}
	s.mu.Unlock()
	return nil
}

func (s *Service) seedSnapshot(ctx context.Context, ev gcal.Event) {
	now := s.clock.Now().In(s.loc)

	var palette *gcal.Palette
	var primaryID string
	s.mu.Lock()
	if s.view != nil {
		palette = s.view.Palette
		primaryID = s.view.PrimaryCalColorID
	}
	s.mu.Unlock()

	snap := cache.Snapshot{
		SavedAt:           now,
		Range:             BulkWindow(now.Year(), now.Month(), s.monthsBack, s.monthsForward, s.loc),
		Palette:           palette,
		PrimaryCalColorID: primaryID,
		Events:            []gcal.Event{ev},
	}
	if err := s.store.Save(ctx, snap); err != nil {
		log.Errorf("failed to seed bulk cache: %v", err)
	}
}
