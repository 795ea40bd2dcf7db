package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.MatchDelay != 300*time.Millisecond || cfg.MissDelay != 800*time.Millisecond || cfg.TurnDelay != 1500*time.Millisecond {
		t.Errorf("unexpected delays %v %v %v", cfg.MatchDelay, cfg.MissDelay, cfg.TurnDelay)
	}
	if cfg.AppID != "emoji-memory" {
		t.Errorf("expected emoji-memory, got %q", cfg.AppID)
	}
	if cfg.RemoteConfigured() {
		t.Error("expected remote unconfigured by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("MISS_DELAY", "1s")
	t.Setenv("REMOTE_SCORES_URL", "libsql://scores.example.turso.io")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug, got %v", cfg.LogLevel)
	}
	if cfg.MissDelay != time.Second {
		t.Errorf("expected 1s, got %v", cfg.MissDelay)
	}
	if !cfg.RemoteConfigured() {
		t.Error("expected remote configured")
	}
}
