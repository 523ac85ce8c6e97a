package app

import (
	"net/http"

	"github.com/calboard/calboard/internal/config"
	"github.com/calboard/calboard/pkg/session"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-Session-Id header into context for downstream services.
	// A header naming an unknown or expired session is rejected here, so
	// handlers only ever see a valid session or none at all.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sessionIdHeader := req.Header.Get("X-Session-Id")
			ctx := req.Context()

			if sessionIdHeader != "" {
				s, err := deps.SessionService.Get(ctx, sessionIdHeader)
				if err != nil {
					log.Errorf("failed to get session: %v", err)
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				if s == nil {
					log.Debugf("unknown session: %s", sessionIdHeader)
					http.Error(w, "session expired", http.StatusUnauthorized)
					return
				}
				ctx = session.WithSession(ctx, *s)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
