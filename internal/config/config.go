package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBDir    string     `env:"DB_DIR" envDefault:"data"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// Remote leaderboard. Leaving the URL empty keeps the game offline.
	AppID           string `env:"APP_ID" envDefault:"emoji-memory"`
	RemoteScoresURL string `env:"REMOTE_SCORES_URL"`
	RemoteAuthToken string `env:"REMOTE_AUTH_TOKEN"`

	MatchDelay time.Duration `env:"MATCH_DELAY" envDefault:"300ms"`
	MissDelay  time.Duration `env:"MISS_DELAY" envDefault:"800ms"`
	TurnDelay  time.Duration `env:"TURN_DELAY" envDefault:"1500ms"`

	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	ReapInterval       time.Duration `env:"REAP_INTERVAL" envDefault:"5m"`
	LeaderboardRefresh time.Duration `env:"LEADERBOARD_REFRESH" envDefault:"15s"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

func (c *Config) RemoteConfigured() bool { return c.RemoteScoresURL != "" }

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
