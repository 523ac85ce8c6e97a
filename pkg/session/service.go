package session

import (
	"context"
	"fmt"

	"github.com/calboard/calboard/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Get(ctx context.Context, id string) (*Session, error)
	// Invalidate clears the current session and notifies subscribers. It is
	// the single teardown path, used by both explicit logout and 401 handling.
	Invalidate(ctx context.Context, reason string) error
}

type ServiceImpl struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*Session, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Invalidate(ctx context.Context, reason string) error {
	current, err := Current(ctx)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	log.Debugf("session %s invalidated: %s", current.ID, reason)

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.SessionInvalidatedType, event_bus.SessionInvalidated{
		SessionID: current.ID,
		Reason:    reason,
	})); err != nil {
		log.Errorf("failed to publish session invalidation: %v", err)
	}
	return nil
}
