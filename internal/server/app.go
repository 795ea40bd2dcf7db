package server

import (
	"log/slog"

	"github.com/playperu/emojimemory/internal/scores"
)

// App bundles what the HTTP handlers and background jobs share.
type App struct {
	Sessions *Registry
	Scores   *scores.Fallback
	Feed     *scores.Feed
	Broker   *Broker
	Limiter  *IPLimiter
	SPADir   string
	Logger   *slog.Logger
}

// NewApp wires leaderboard and connectivity changes onto the scores topic.
func NewApp(sessions *Registry, fb *scores.Fallback, broker *Broker, limiter *IPLimiter, spaDir string, logger *slog.Logger) *App {
	app := &App{
		Sessions: sessions,
		Scores:   fb,
		Broker:   broker,
		Limiter:  limiter,
		SPADir:   spaDir,
		Logger:   logger,
	}
	app.Feed = scores.NewFeed(fb, func(b scores.Board) {
		broker.Publish(scoresTopic, eventLeaderboard, newScoresResponse(b))
	})
	fb.Connectivity().OnChange(func(offline bool) {
		logger.Info("leaderboard connectivity changed", "offline", offline)
		broker.Publish(scoresTopic, eventConnectivity, connectivityOf(fb))
	})
	return app
}
