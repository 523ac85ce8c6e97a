package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/calboard/calboard/pkg/session"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var ErrUnauthenticated = fmt.Errorf("user is unauthenticated, authentication is required")

// eventFields restricts every list response to the projection the board needs.
const eventFields = "items(id,summary,description,location,colorId,start(date,dateTime,timeZone),end(date,dateTime,timeZone)),nextPageToken"

const pageSize = 2500

type Gateway interface {
	// ListEvents performs the windowed bulk fetch: expanded recurring
	// instances, ordered by start time, paginated until the continuation
	// token runs out or limit events have been collected.
	ListEvents(ctx context.Context, window Window, limit int) ([]Event, error)
	InsertEvent(ctx context.Context, body Event) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	Colors(ctx context.Context) (*Palette, error)
	PrimaryCalendarColorID(ctx context.Context) (string, error)
}

type GatewayImpl struct {
	sessions session.Service
}

func NewGateway(sessions session.Service) *GatewayImpl {
	return &GatewayImpl{sessions: sessions}
}

func (g *GatewayImpl) prepareService(ctx context.Context) (*calendar.Service, error) {
	current, err := session.Current(ctx)
	if err != nil {
		log.Debug("no session, authentication is required")
		return nil, ErrUnauthenticated
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: current.AccessToken,
		TokenType:   "Bearer",
	})
	service, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		err := fmt.Errorf("unable to create Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}

// translateErr maps a 401 from any calendar call to ErrUnauthenticated.
func translateErr(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return err
}

// fail translates the error and, on a 401, clears the session so the frontend
// is forced back through the consent flow.
func (g *GatewayImpl) fail(ctx context.Context, err error) error {
	err = translateErr(err)
	if errors.Is(err, ErrUnauthenticated) {
		if invErr := g.sessions.Invalidate(ctx, "calendar API returned 401"); invErr != nil && !errors.Is(invErr, session.ErrNoSession) {
			log.Errorf("failed to invalidate session after 401: %v", invErr)
		}
	}
	return err
}

func (g *GatewayImpl) ListEvents(ctx context.Context, window Window, limit int) ([]Event, error) {
	service, err := g.prepareService(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]Event, 0, min(limit, 256))
	pageToken := ""
	for len(all) < limit {
		call := service.Events.List("primary").
			TimeMin(window.Start.Format(time.RFC3339)).
			TimeMax(window.End.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(int64(min(pageSize, limit-len(all)))).
			Fields(googleapi.Field(eventFields))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve events: %w", g.fail(ctx, err))
		}

		for _, item := range resp.Items {
			all = append(all, fromGoogleEvent(item))
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (g *GatewayImpl) InsertEvent(ctx context.Context, body Event) (*Event, error) {
	service, err := g.prepareService(ctx)
	if err != nil {
		return nil, err
	}

	created, err := service.Events.Insert("primary", toGoogleEvent(body)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to insert event: %w", g.fail(ctx, err))
	}

	result := fromGoogleEvent(created)
	return &result, nil
}

func (g *GatewayImpl) DeleteEvent(ctx context.Context, eventID string) error {
	service, err := g.prepareService(ctx)
	if err != nil {
		return err
	}

	// Any non-success status is surfaced to the caller, never retried.
	if err := service.Events.Delete("primary", eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to delete event %s: %w", eventID, g.fail(ctx, err))
	}
	return nil
}

func (g *GatewayImpl) Colors(ctx context.Context) (*Palette, error) {
	service, err := g.prepareService(ctx)
	if err != nil {
		return nil, err
	}

	colors, err := service.Colors.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve colors: %w", g.fail(ctx, err))
	}

	palette := &Palette{
		Event:    make(map[string]Color, len(colors.Event)),
		Calendar: make(map[string]Color, len(colors.Calendar)),
	}
	for id, def := range colors.Event {
		palette.Event[id] = Color{Background: def.Background, Foreground: def.Foreground}
	}
	for id, def := range colors.Calendar {
		palette.Calendar[id] = Color{Background: def.Background, Foreground: def.Foreground}
	}
	return palette, nil
}

func (g *GatewayImpl) PrimaryCalendarColorID(ctx context.Context) (string, error) {
	service, err := g.prepareService(ctx)
	if err != nil {
		return "", err
	}

	list, err := service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", g.fail(ctx, err))
	}

	for _, item := range list.Items {
		if item.Primary {
			return item.ColorId, nil
		}
	}
	return "", nil
}

func fromGoogleEvent(item *calendar.Event) Event {
	ev := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		ColorID:     item.ColorId,
	}
	if item.Start != nil {
		ev.Start = &EventDateTime{Date: item.Start.Date, DateTime: item.Start.DateTime, TimeZone: item.Start.TimeZone}
	}
	if item.End != nil {
		ev.End = &EventDateTime{Date: item.End.Date, DateTime: item.End.DateTime, TimeZone: item.End.TimeZone}
	}
	return ev
}

func toGoogleEvent(ev Event) *calendar.Event {
	out := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		ColorId:     ev.ColorID,
	}
	if ev.Start != nil {
		out.Start = &calendar.EventDateTime{Date: ev.Start.Date, DateTime: ev.Start.DateTime, TimeZone: ev.Start.TimeZone}
	}
	if ev.End != nil {
		out.End = &calendar.EventDateTime{Date: ev.End.Date, DateTime: ev.End.DateTime, TimeZone: ev.End.TimeZone}
	}
	return out
}
