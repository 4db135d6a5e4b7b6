package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `server:
  port: "9090"
redis:
  addr: localhost:6379
  namespace: kiosk-1
quiz:
  bank: default
  round_ticks: 10
  tick: 500ms
storage:
  backend: redis
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Namespace != "kiosk-1" || cfg.Storage.Backend != StorageRedis {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Quiz.RoundTicks != 10 || TTLDuration(cfg.Quiz.Tick, time.Second) != 500*time.Millisecond {
		t.Fatalf("unexpected quiz section %+v", cfg.Quiz)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log section %+v", cfg.Log)
	}
}

func TestLoadOrDefaultAllowsMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Storage.Backend != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load should still fail on a missing file")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback on parse error, got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}
