package board

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calboard/calboard/internal/event_bus"
	"github.com/calboard/calboard/internal/utils"
	"github.com/calboard/calboard/pkg/cache"
	"github.com/calboard/calboard/pkg/gcal"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(gateway *gcal.GatewayStub, now time.Time) *Handler {
	clock := &utils.MockClock{FixedNow: now}
	service := NewService(gateway, cache.NewStoreStub(), event_bus.NewEventBus(), clock, testCacheConfig, time.UTC)
	return NewHandler(service, clock, time.UTC)
}

func TestGetBoard(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("renders 42 day cells with events placed on their days", func(t *testing.T) {
		gateway := gcal.NewGatewayStub()
		gateway.EventsResult = []gcal.Event{{
			ID:      "trip",
			Summary: "Trip",
			Start:   &gcal.EventDateTime{Date: "2026-06-10"},
			End:     &gcal.EventDateTime{Date: "2026-06-12"},
		}}
		handler := newTestHandler(gateway, now)

		req := httptest.NewRequest("GET", "/api/board?month=2026-06", nil)
		w := httptest.NewRecorder()
		handler.GetBoard(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var board BoardDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&board))

		assert.Equal(t, "2026-06", board.Month)
		require.Len(t, board.Days, 42)
		assert.Equal(t, "2026-05-31", board.Days[0].Date)

		byDate := map[string]DayDTO{}
		for _, d := range board.Days {
			byDate[d.Date] = d
		}
		// All-day 10th..12th exclusive occupies the 10th and 11th.
		require.Len(t, byDate["2026-06-10"].Events, 1)
		assert.Equal(t, "trip", byDate["2026-06-10"].Events[0].ID)
		assert.Len(t, byDate["2026-06-11"].Events, 1)
		assert.Empty(t, byDate["2026-06-12"].Events)

		assert.True(t, byDate["2026-06-15"].Today)
		assert.False(t, byDate["2026-05-31"].InMonth)
		assert.True(t, byDate["2026-06-01"].InMonth)
	})

	t.Run("defaults to the current month", func(t *testing.T) {
		handler := newTestHandler(gcal.NewGatewayStub(), now)

		req := httptest.NewRequest("GET", "/api/board", nil)
		w := httptest.NewRecorder()
		handler.GetBoard(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var board BoardDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&board))
		assert.Equal(t, "2026-06", board.Month)
	})

	t.Run("rejects an unparsable month", func(t *testing.T) {
		handler := newTestHandler(gcal.NewGatewayStub(), now)

		req := httptest.NewRequest("GET", "/api/board?month=June", nil)
		w := httptest.NewRecorder()
		handler.GetBoard(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps a missing session to 401", func(t *testing.T) {
		gateway := gcal.NewGatewayStub()
		gateway.Err = gcal.ErrUnauthenticated
		handler := newTestHandler(gateway, now)

		req := httptest.NewRequest("GET", "/api/board?month=2026-06", nil)
		w := httptest.NewRecorder()
		handler.GetBoard(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreateEventHandler(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("creates an event from a draft", func(t *testing.T) {
		gateway := gcal.NewGatewayStub()
		handler := newTestHandler(gateway, now)

		body := `{"summary":"Trip","start":{"date":"2026-06-20"},"end":{"date":"2026-06-21"}}`
		req := httptest.NewRequest("POST", "/api/calendar/event", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.CreateEvent(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var created gcal.Event
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.NotEmpty(t, created.ID)
		require.Len(t, gateway.Inserted, 1)
		// Exclusive end date on the wire.
		assert.Equal(t, "2026-06-22", gateway.Inserted[0].End.Date)
	})

	t.Run("rejects a draft without dates", func(t *testing.T) {
		handler := newTestHandler(gcal.NewGatewayStub(), now)

		req := httptest.NewRequest("POST", "/api/calendar/event", strings.NewReader(`{"summary":"x"}`))
		w := httptest.NewRecorder()
		handler.CreateEvent(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteEventHandler(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	gateway := gcal.NewGatewayStub()
	handler := newTestHandler(gateway, now)

	r := mux.NewRouter()
	r.HandleFunc("/api/calendar/event/{eventId}", handler.DeleteEvent).Methods("DELETE")

	req := httptest.NewRequest("DELETE", "/api/calendar/event/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"abc"}, gateway.Deleted)
}
