package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

type JobConfig struct {
	IdleTimeout        time.Duration
	ReapInterval       time.Duration
	LeaderboardRefresh time.Duration
}

// Jobs runs the periodic background work: dropping abandoned sessions and
// idle rate limiters, and re-reading the leaderboard so every client sees
// new records.
type Jobs struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

func StartJobs(ctx context.Context, logger *slog.Logger, app *App, clock clockwork.Clock, cfg JobConfig) (*Jobs, error) {
	opts := []gocron.SchedulerOption{gocron.WithLogger(gocron.NewLogger(gocron.LogLevelError))}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.ReapInterval),
		gocron.NewTask(func() {
			if n := app.Sessions.Reap(cfg.IdleTimeout); n > 0 {
				logger.Info("reaped idle sessions", "count", n, "remaining", app.Sessions.Len())
			}
			if n := app.Limiter.Prune(cfg.IdleTimeout); n > 0 {
				logger.Debug("pruned rate limiters", "count", n, "remaining", app.Limiter.Len())
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return nil, fmt.Errorf("scheduling session reaper: %w", err)
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.LeaderboardRefresh),
		gocron.NewTask(func() {
			if err := app.Feed.Refresh(ctx); err != nil {
				logger.Error("refreshing leaderboard", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		return nil, fmt.Errorf("scheduling leaderboard refresh: %w", err)
	}

	sched.Start()
	return &Jobs{sched: sched, logger: logger}, nil
}

func (j *Jobs) Shutdown() error {
	j.logger.Info("stopping background jobs")
	return j.sched.Shutdown()
}
