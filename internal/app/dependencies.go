package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/calboard/calboard/internal/config"
	"github.com/calboard/calboard/internal/event_bus"
	"github.com/calboard/calboard/internal/utils"
	"github.com/calboard/calboard/pkg/analyzer"
	"github.com/calboard/calboard/pkg/board"
	"github.com/calboard/calboard/pkg/cache"
	"github.com/calboard/calboard/pkg/gcal"
	"github.com/calboard/calboard/pkg/session"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	SessionRepo    session.Repository
	SessionService session.Service
	GoogleAuth     *session.GoogleAuth

	Gateway    gcal.Gateway
	CacheStore cache.Store

	BoardService *board.Service
	BoardHandler *board.Handler

	ModelClient     analyzer.ModelClient
	AnalyzerRepo    analyzer.Repository
	AnalyzerService *analyzer.Service
	AnalyzerHandler *analyzer.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", cfg.Display.Timezone, err)
	}

	deps := &Dependencies{}
	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.SessionRepo = session.NewRepository(db)
	deps.SessionService = session.NewService(deps.SessionRepo, deps.EventBus)
	deps.GoogleAuth = session.NewGoogleAuth(deps.SessionRepo, deps.SessionService, cfg)

	deps.Gateway = gcal.NewGateway(deps.SessionService)
	deps.CacheStore = cache.NewStore(db)

	deps.BoardService = board.NewService(deps.Gateway, deps.CacheStore, deps.EventBus, deps.Clock, cfg.Cache, loc)
	deps.BoardHandler = board.NewHandler(deps.BoardService, deps.Clock, loc)

	deps.ModelClient = analyzer.NewGeminiClient(cfg.Gemini)
	deps.AnalyzerRepo = analyzer.NewRepository(db)
	deps.AnalyzerService = analyzer.NewService(deps.ModelClient, deps.AnalyzerRepo, cfg.Gemini.Model, deps.Clock)
	deps.AnalyzerHandler = analyzer.NewHandler(deps.AnalyzerService)

	return deps, nil
}
