package board

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/calboard/calboard/internal/rest"
	"github.com/calboard/calboard/internal/utils"
	"github.com/calboard/calboard/pkg/gcal"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	clock   utils.Clock
	loc     *time.Location
}

func NewHandler(service *Service, clock utils.Clock, loc *time.Location) *Handler {
	return &Handler{service: service, clock: clock, loc: loc}
}

// BoardDTO is one rendered month: 42 day cells plus the raw events backing
// them, so clients can open an event without a second request.
type BoardDTO struct {
	Month  string       `json:"month"`
	Days   []DayDTO     `json:"days"`
	Events []gcal.Event `json:"events"`
}

type DayDTO struct {
	Date    string        `json:"date"`
	InMonth bool          `json:"inMonth"`
	Today   bool          `json:"today"`
	Events  []DayEventDTO `json:"events"`
}

type DayEventDTO struct {
	ID      string       `json:"id"`
	Summary string       `json:"summary"`
	AllDay  bool         `json:"allDay"`
	Color   DisplayColor `json:"color"`
	// Faded marks events rendered only through spillover cells: they belong
	// entirely to a neighboring month.
	Faded bool `json:"faded"`
}

// GetBoard handles GET /api/board?month=YYYY-MM. Without a month parameter it
// renders the current month.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	now := h.clock.Now().In(h.loc)
	year, month := now.Year(), now.Month()

	if monthParam := r.URL.Query().Get("month"); monthParam != "" {
		var err error
		year, month, err = ParseYearMonth(monthParam)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "invalid month", Details: err.Error()})
			return
		}
	}

	view, err := h.service.LoadMonth(r.Context(), year, month)
	if err != nil {
		h.writeLoadError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(h.buildBoard(view, now)); err != nil {
		log.Errorf("failed to encode board response: %v", err)
	}
}

// CreateEvent handles POST /api/calendar/event with a draft body.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var draft gcal.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	created, err := h.service.CreateEvent(r.Context(), draft)
	if err != nil {
		if errors.Is(err, gcal.ErrInvalidDraft) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
			return
		}
		h.writeLoadError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		log.Errorf("failed to encode created event: %v", err)
	}
}

// DeleteEvent handles DELETE /api/calendar/event/{eventId}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	if eventID == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "eventId is required"})
		return
	}

	if err := h.service.DeleteEvent(r.Context(), eventID); err != nil {
		w.Header().Set("Content-Type", "application/json")
		h.writeLoadError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, gcal.ErrUnauthenticated) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "authentication required"})
		return
	}
	log.Errorf("calendar request failed: %v", err)
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "calendar request failed", Details: err.Error()})
}

func (h *Handler) buildBoard(view *View, now time.Time) BoardDTO {
	board := BoardDTO{
		Month:  FormatYearMonth(view.Year, view.Month),
		Events: view.Events,
	}

	type placed struct {
		event gcal.Event
		rng   EventRange
		faded bool
	}
	ranges := make([]placed, 0, len(view.Events))
	for _, ev := range view.Events {
		rng, ok := NormalizeRange(ev, h.loc)
		if !ok {
			continue
		}
		ranges = append(ranges, placed{
			event: ev,
			rng:   rng,
			faded: !rng.TouchesMonth(view.Year, view.Month, h.loc),
		})
	}

	today := startOfDay(now)
	for _, day := range MonthGrid(view.Year, view.Month, h.loc) {
		cell := DayDTO{
			Date:    day.Format("2006-01-02"),
			InMonth: day.Month() == view.Month,
			Today:   day.Equal(today),
			Events:  []DayEventDTO{},
		}
		for _, p := range ranges {
			if !p.rng.OnDay(day) {
				continue
			}
			cell.Events = append(cell.Events, DayEventDTO{
				ID:      p.event.ID,
				Summary: p.event.Summary,
				AllDay:  p.rng.AllDay,
				Color:   ResolveColor(view.Palette, p.event, view.PrimaryCalColorID),
				Faded:   p.faded,
			})
		}
		board.Days = append(board.Days, cell)
	}
	return board
}
