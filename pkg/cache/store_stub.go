package cache

import (
	"context"
	"sync"

	"github.com/calboard/calboard/pkg/gcal"
)

type StoreStub struct {
	mu   sync.Mutex
	snap *Snapshot

	LoadCalls   int
	SaveCalls   int
	UpsertCalls int
	Err         error
}

func NewStoreStub() *StoreStub {
	return &StoreStub{}
}

func (s *StoreStub) Seed(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = &snap
}

func (s *StoreStub) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *StoreStub) Load(_ context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoadCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	if s.snap == nil {
		return nil, ErrNotCached
	}
	copied := *s.snap
	return &copied, nil
}

func (s *StoreStub) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	if s.Err != nil {
		return s.Err
	}
	s.snap = &snap
	return nil
}

func (s *StoreStub) UpsertEvent(_ context.Context, ev gcal.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpsertCalls++
	if s.Err != nil {
		return s.Err
	}
	if s.snap == nil {
		return ErrNotCached
	}
	s.snap.Events = gcal.Upsert(s.snap.Events, ev)
	return nil
}
