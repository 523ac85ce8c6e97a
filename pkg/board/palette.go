package board

import "github.com/calboard/calboard/pkg/gcal"

// DisplayColor is a resolved background/foreground pair ready for rendering.
type DisplayColor struct {
	Bg string `json:"bg"`
	Fg string `json:"fg"`
}

// DefaultColor is the neutral fallback used when no palette entry applies.
var DefaultColor = DisplayColor{Bg: "#e5e7eb", Fg: "#111827"}

// ResolveColor picks the display color for an event: the event's own palette
// entry if it has one, else the primary calendar's entry, else DefaultColor.
// It never fails, whatever combination of missing palette, unknown ids, or
// absent color fields it is given.
func ResolveColor(palette *gcal.Palette, ev gcal.Event, primaryCalColorID string) DisplayColor {
	if palette == nil {
		return DefaultColor
	}
	if ev.ColorID != "" {
		if c, ok := palette.Event[ev.ColorID]; ok {
			return DisplayColor{Bg: c.Background, Fg: c.Foreground}
		}
	}
	if primaryCalColorID != "" {
		if c, ok := palette.Calendar[primaryCalColorID]; ok {
			return DisplayColor{Bg: c.Background, Fg: c.Foreground}
		}
	}
	return DefaultColor
}
