package config_test

import (
	"testing"

	"github.com/finsight/finsight/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != config.DefaultPort {
		t.Errorf("expected default port %d, got %d", config.DefaultPort, cfg.Port)
	}
	if cfg.ServerURL != config.DefaultServerURL {
		t.Errorf("expected default server URL %q, got %q", config.DefaultServerURL, cfg.ServerURL)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelaySeconds != 1.0 {
		t.Errorf("expected base delay 1.0s, got %v", cfg.BaseDelaySeconds)
	}
	if cfg.MaxToolRounds != 1 {
		t.Errorf("expected single tool round by default, got %d", cfg.MaxToolRounds)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FINSIGHT_PORT", "9100")
	t.Setenv("FINSIGHT_SERVER_URL", "http://example.test/sse")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "demo")
	t.Setenv("FINSIGHT_MAX_RETRIES", "5")
	t.Setenv("FINSIGHT_MAX_TOOL_ROUNDS", "3")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 9100 {
		t.Errorf("port override not applied: %d", cfg.Port)
	}
	if cfg.ServerURL != "http://example.test/sse" {
		t.Errorf("server URL override not applied: %q", cfg.ServerURL)
	}
	if cfg.AlphaVantageAPIKey != "demo" {
		t.Errorf("API key override not applied: %q", cfg.AlphaVantageAPIKey)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("retries override not applied: %d", cfg.MaxRetries)
	}
	if cfg.MaxToolRounds != 3 {
		t.Errorf("tool rounds override not applied: %d", cfg.MaxToolRounds)
	}
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("FINSIGHT_PORT", "not-a-number")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != config.DefaultPort {
		t.Errorf("malformed port should keep default, got %d", cfg.Port)
	}
}
