package gcal

import (
	"context"
	"fmt"
	"sync"
)

type GatewayStub struct {
	mu sync.Mutex

	EventsResult   []Event
	PaletteResult  *Palette
	PrimaryColorID string
	Err            error

	ListCalls    int
	ColorCalls   int
	PrimaryCalls int
	Inserted     []Event
	Deleted      []string
	nextID       int
}

func NewGatewayStub() *GatewayStub {
	return &GatewayStub{}
}

func (g *GatewayStub) ListEvents(_ context.Context, _ Window, limit int) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ListCalls++
	if g.Err != nil {
		return nil, g.Err
	}
	events := g.EventsResult
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (g *GatewayStub) InsertEvent(_ context.Context, body Event) (*Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	if body.ID == "" {
		g.nextID++
		body.ID = fmt.Sprintf("stub-event-%d", g.nextID)
	}
	g.Inserted = append(g.Inserted, body)
	return &body, nil
}

func (g *GatewayStub) DeleteEvent(_ context.Context, eventID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return g.Err
	}
	g.Deleted = append(g.Deleted, eventID)
	return nil
}

func (g *GatewayStub) Colors(_ context.Context) (*Palette, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ColorCalls++
	if g.Err != nil {
		return nil, g.Err
	}
	return g.PaletteResult, nil
}

func (g *GatewayStub) PrimaryCalendarColorID(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.PrimaryCalls++
	if g.Err != nil {
		return "", g.Err
	}
	return g.PrimaryColorID, nil
}
