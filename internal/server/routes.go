package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, app *App) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Emoji Memory API", "/openapi.json", "/docs"))

	r.Route("/api/games", func(r chi.Router) {
		r.With(app.Limiter.Middleware).Post("/", handleCreateGame(app.Sessions))

		// {id} resolved by sessionMiddleware.
		r.Route("/{id}", func(r chi.Router) {
			r.Use(sessionMiddleware(app.Sessions))
			r.Get("/", handleGetGame())
			r.Get("/events", handleGameEvents(app.Broker))

			r.Group(func(r chi.Router) {
				r.Use(app.Limiter.Middleware)
				r.Post("/flip", handleFlip())
				r.Post("/next", handleNextLevel())
				r.Post("/restart", handleRestartLevel())
				r.Post("/menu", handleReturnToMenu())
				r.Post("/record", handleSaveRecord(app.Feed))
				r.Delete("/", handleDeleteGame(app.Sessions))
			})
		})
	})

	r.Get("/api/scores", handleListScores(app.Scores))
	r.Get("/api/scores/events", handleScoreEvents(app.Broker, app.Scores, app.Feed))
	r.Get("/api/connectivity", handleGetConnectivity(app.Scores))
	r.With(app.Limiter.Middleware).Post("/api/connectivity", handleSetConnectivity(logger, app.Scores, app.Feed))

	if app.SPADir != "" {
		if info, err := os.Stat(app.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", app.SPADir)
			r.NotFound(handleSPA(app.SPADir))
		}
	}
}
