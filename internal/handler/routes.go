package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/vaultpass/passgen/internal/middleware"
	"github.com/vaultpass/passgen/internal/realtime"
	"github.com/vaultpass/passgen/internal/service"
)

// RouterConfig carries everything the HTTP API is built from.
type RouterConfig struct {
	Generator *service.GeneratorService
	History   *service.HistoryService
	Locales   *service.LocaleService
	Sessions  *service.SessionService
	Hub       *realtime.Hub

	SessionSecret  string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the API router. Rate limiter housekeeping stops when ctx is done.
func NewRouter(ctx context.Context, cfg RouterConfig) chi.Router {
	genHandler := NewGeneratorHandler(cfg.Generator)
	historyHandler := NewHistoryHandler(cfg.History)
	localeHandler := NewLocaleHandler(cfg.Locales)
	sessionHandler := NewSessionHandler(cfg.Sessions)
	realtimeHandler := NewRealtimeHandler(cfg.Hub, cfg.Sessions, cfg.History)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.OptionalSession(cfg.SessionSecret)).
			Post("/strength", genHandler.HandleStrength)
		r.Get("/labels", localeHandler.HandleLabels)
		r.Get("/ws", realtimeHandler.HandleConnect)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
			r.Post("/session", sessionHandler.HandleCreate)

			r.With(middleware.OptionalSession(cfg.SessionSecret)).
				Post("/generate", genHandler.HandleGenerate)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(cfg.SessionSecret))
			r.Get("/history", historyHandler.HandleList)
			r.Delete("/history", historyHandler.HandleClear)
			r.Get("/locale", localeHandler.HandleGet)
			r.Put("/locale", localeHandler.HandleSet)
		})
	})

	return r
}
