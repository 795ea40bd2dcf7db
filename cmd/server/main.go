package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/emojimemory/internal/config"
	"github.com/playperu/emojimemory/internal/database"
	"github.com/playperu/emojimemory/internal/handler/health"
	"github.com/playperu/emojimemory/internal/memory"
	"github.com/playperu/emojimemory/internal/scores"
	"github.com/playperu/emojimemory/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	clock := clockwork.NewRealClock()

	// --- Local leaderboard ---
	if err := os.MkdirAll(cfg.DBDir, 0o755); err != nil {
		return fmt.Errorf("creating db dir: %w", err)
	}
	dbPath := filepath.Join(cfg.DBDir, "scores.db")
	db, err := database.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	local, err := scores.NewLocalStore(ctx, db)
	if err != nil {
		return fmt.Errorf("initializing local scores: %w", err)
	}
	logger.Info("connected to sqlite", "path", dbPath)

	// --- Remote leaderboard (optional) ---
	remote, rdb := openRemote(ctx, logger, cfg, clock)
	if rdb != nil {
		defer rdb.Close()
	}

	conn := scores.PermanentlyOffline()
	var remoteStore scores.Store
	if remote != nil {
		conn = scores.NewConnectivity(false)
		remoteStore = remote
	}
	fb := scores.NewFallback(remoteStore, local, conn, logger)

	// --- Sessions ---
	broker := server.NewBroker()
	sessions := server.NewRegistry(memory.Options{
		Clock: clock,
		Delays: memory.Delays{
			Match: cfg.MatchDelay,
			Miss:  cfg.MissDelay,
			Turn:  cfg.TurnDelay,
			Tick:  memory.DefaultDelays().Tick,
		},
		Leaderboard: fb,
	}, broker, logger)
	defer sessions.Close()

	app := server.NewApp(sessions, fb, broker, server.NewIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), cfg.SPADir, logger)

	jobs, err := server.StartJobs(ctx, logger, app, clock, server.JobConfig{
		IdleTimeout:        cfg.SessionIdleTimeout,
		ReapInterval:       cfg.ReapInterval,
		LeaderboardRefresh: cfg.LeaderboardRefresh,
	})
	if err != nil {
		return fmt.Errorf("starting jobs: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, app, func(r chi.Router) {
		h := health.NewHandler(logger, map[string]health.Checker{"sqlite": local})
		if remote != nil {
			h.Optional("remote", health.CheckerFunc(remote.Ping))
		}
		r.Mount("/healthz", h.Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		if err := jobs.Shutdown(); err != nil {
			logger.Error("stopping jobs", "error", err)
		}
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// openRemote connects the global leaderboard. Any failure leaves the game
// permanently offline for this process rather than aborting startup.
func openRemote(ctx context.Context, logger *slog.Logger, cfg *config.Config, clock clockwork.Clock) (*scores.RemoteStore, *sql.DB) {
	if !cfg.RemoteConfigured() {
		logger.Info("remote leaderboard not configured, running offline")
		return nil, nil
	}

	rdb, err := database.OpenRemote(ctx, cfg.RemoteScoresURL, cfg.RemoteAuthToken)
	if err != nil {
		logger.Warn("remote leaderboard unavailable, running offline", "error", err)
		return nil, nil
	}
	remote, err := scores.NewRemoteStore(ctx, rdb, cfg.AppID, clock)
	if err != nil {
		rdb.Close()
		logger.Warn("remote leaderboard unusable, running offline", "error", err)
		return nil, nil
	}
	logger.Info("connected to remote leaderboard", "namespace", remote.Namespace())
	return remote, rdb
}
