package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: test
groups:
  - name: Indices
    assets:
      - label: KOSPI
        symbol: ^KS11
      - label: NASDAQ
        symbol: ^IXIC
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("default port %d", cfg.Server.Port)
	}
	if cfg.Refresh.Interval != 60*time.Second {
		t.Fatalf("default refresh %v", cfg.Refresh.Interval)
	}
	if cfg.MarketData.BaseURL != "https://query1.finance.yahoo.com" {
		t.Fatalf("default base url %q", cfg.MarketData.BaseURL)
	}
	if cfg.Analytics.SMAWindow != 20 || cfg.Analytics.RSIPeriod != 14 {
		t.Fatalf("default analytics %+v", cfg.Analytics)
	}
	if cfg.Analytics.Sims != 50 || cfg.Analytics.Horizon != 30 {
		t.Fatalf("default simulation %+v", cfg.Analytics)
	}
}

func TestLoadSymbols(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	symbols := cfg.Symbols()
	if len(symbols) != 2 || symbols[0] != "^KS11" || symbols[1] != "^IXIC" {
		t.Fatalf("symbols %v", symbols)
	}
}

func TestLoadRejectsDuplicateSymbols(t *testing.T) {
	body := `
environment: test
groups:
  - name: Indices
    assets:
      - label: KOSPI
        symbol: ^KS11
      - label: Again
        symbol: ^KS11
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected duplicate symbol error")
	}
}

func TestLoadRejectsEmptyGroups(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatalf("expected error for missing groups")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	body := minimalConfig + `
kafka:
  enabled: true
  topic: quotes
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for kafka without brokers")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("MARKETBOARD_PORT", "9999")
	t.Setenv("MARKETDATA_BASE_URL", "http://localhost:1234")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("env port override ignored: %d", cfg.Server.Port)
	}
	if cfg.MarketData.BaseURL != "http://localhost:1234" {
		t.Fatalf("env base url override ignored: %q", cfg.MarketData.BaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("env log level override ignored: %q", cfg.Logging.Level)
	}
}
