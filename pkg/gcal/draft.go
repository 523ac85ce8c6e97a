package gcal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Draft is an in-progress user-edited event. The UI puts a bare clock time
// (HH:MM, sometimes typed as HH.MM) in the dateTime slot; EventBody decides
// whether the draft describes a timed or an all-day event.
type Draft struct {
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Start       DraftEndpoint `json:"start"`
	End         DraftEndpoint `json:"end"`
}

type DraftEndpoint struct {
	Date     string `json:"date"`
	Time     string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// ErrInvalidDraft is returned before any network call when a draft lacks the
// required date fields.
var ErrInvalidDraft = errors.New("start.date and end.date are required")

var hhmmPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

func normalizeTime(t string) string {
	return strings.ReplaceAll(strings.TrimSpace(t), ".", ":")
}

// EventBody builds the remote create request from the draft. Timed drafts
// combine date and HH:MM into an RFC3339 dateTime in the draft's timezone.
// All-day drafts send bare dates, with the end shifted one day forward because
// the remote end date is exclusive.
func (d Draft) EventBody(defaultLoc *time.Location) (Event, error) {
	body := Event{
		Summary:     d.Summary,
		Description: d.Description,
		Location:    d.Location,
		Start:       &EventDateTime{},
		End:         &EventDateTime{},
	}

	startTime := normalizeTime(d.Start.Time)
	endTime := normalizeTime(d.End.Time)

	switch {
	case d.Start.Date != "" && d.End.Date != "" && hhmmPattern.MatchString(startTime) && hhmmPattern.MatchString(endTime):
		startRFC, err := combineDateTime(d.Start.Date, startTime, d.Start.TimeZone, defaultLoc)
		if err != nil {
			return Event{}, err
		}
		endRFC, err := combineDateTime(d.End.Date, endTime, d.End.TimeZone, defaultLoc)
		if err != nil {
			return Event{}, err
		}
		body.Start.DateTime = startRFC
		body.Start.TimeZone = d.Start.TimeZone
		body.End.DateTime = endRFC
		body.End.TimeZone = d.End.TimeZone

	case d.Start.Date != "" && d.End.Date != "":
		endDate, err := addDays(d.End.Date, 1)
		if err != nil {
			return Event{}, err
		}
		body.Start.Date = d.Start.Date
		body.End.Date = endDate

	default:
		return Event{}, ErrInvalidDraft
	}

	return body, nil
}

func combineDateTime(dateStr, hhmm, tz string, fallback *time.Location) (string, error) {
	loc := fallback
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return "", fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		loc = l
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+hhmm, loc)
	if err != nil {
		return "", fmt.Errorf("invalid date/time %q %q: %w", dateStr, hhmm, err)
	}
	return t.Format(time.RFC3339), nil
}

func addDays(dateStr string, days int) (string, error) {
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return d.AddDate(0, 0, days).Format("2006-01-02"), nil
}
