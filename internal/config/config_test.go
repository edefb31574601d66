package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnvOnlyDefaults(t *testing.T) {
	t.Setenv("SP_FORECAST_HORIZON", "3m")
	t.Setenv("SP_RISK_STALLED_DAYS", "14")

	cfg, err := Load("", true)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("http_addr=%q", cfg.Server.HTTPAddr)
	}
	if cfg.Forecast.Horizon != "3m" {
		t.Fatalf("horizon=%q want=3m", cfg.Forecast.Horizon)
	}
	if !cfg.Forecast.WinRateWeighting {
		t.Fatalf("win rate weighting should default on")
	}
	if cfg.Risk.StalledDays != 14 {
		t.Fatalf("stalled_days=%d want=14", cfg.Risk.StalledDays)
	}
	if cfg.Notify.Timeout != 10*time.Second {
		t.Fatalf("notify timeout=%v", cfg.Notify.Timeout)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  http_addr: \":9090\"\nforecast:\n  win_rate_weighting: false\ncron:\n  enabled: false\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.HTTPAddr != ":9090" {
		t.Fatalf("http_addr=%q", cfg.Server.HTTPAddr)
	}
	if cfg.Forecast.WinRateWeighting || cfg.Cron.Enabled {
		t.Fatalf("file values not applied: %+v %+v", cfg.Forecast, cfg.Cron)
	}
	if cfg.Forecast.Horizon != "quarter" {
		t.Fatalf("horizon=%q want default quarter", cfg.Forecast.Horizon)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
