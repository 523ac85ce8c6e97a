package app

import (
	"github.com/calboard/calboard/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Google OAuth
	r.HandleFunc("/api/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")

	// Month board
	r.HandleFunc("/api/board", deps.BoardHandler.GetBoard).Methods("GET")

	// Calendar events
	r.HandleFunc("/api/calendar/event", deps.BoardHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.BoardHandler.DeleteEvent).Methods("DELETE")

	// AI analysis
	r.HandleFunc("/api/analyze/image", deps.AnalyzerHandler.AnalyzeImage).Methods("POST")
	r.HandleFunc("/api/analyze/text", deps.AnalyzerHandler.AnalyzeText).Methods("POST")
}
