package gcal

import "time"

// EventDateTime mirrors the remote endpoint shape: exactly one of Date or
// DateTime is set. All-day endpoints carry only Date; the remote convention
// encodes the end date exclusively.
type EventDateTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is the minimal field projection the board stores and renders.
type Event struct {
	ID          string         `json:"id,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	ColorID     string         `json:"colorId,omitempty"`
	Start       *EventDateTime `json:"start,omitempty"`
	End         *EventDateTime `json:"end,omitempty"`
}

// Color is a background/foreground pair from the remote palette.
type Color struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// Palette holds the two color namespaces: per-event ids and per-calendar ids.
type Palette struct {
	Event    map[string]Color `json:"event"`
	Calendar map[string]Color `json:"calendar"`
}

// Window is a half-open [Start, End) instant range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the window fully covers other.
func (w Window) Contains(other Window) bool {
	return !w.Start.After(other.Start) && !w.End.Before(other.End)
}
