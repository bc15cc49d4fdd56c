// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Verifies defaults, env overrides, and range checks

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"CURATOR_OPENAI_MODEL", "OPENAI_TIMEOUT", "OPENAI_MAX_RETRIES",
		"CURATOR_MIN_SCORE", "CURATOR_HISTORY_LIMIT", "CURATOR_LOG_LIMIT",
		"CURATOR_STORE", "CURATOR_HTTP_ADDR", "NLU_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MinReusabilityScore != 7 {
		t.Errorf("MinReusabilityScore = %d, want 7", cfg.MinReusabilityScore)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10", cfg.HistoryLimit)
	}
	if cfg.DecisionLogLimit != 100 {
		t.Errorf("DecisionLogLimit = %d, want 100", cfg.DecisionLogLimit)
	}
	if cfg.StoreBackend != StoreLocal {
		t.Errorf("StoreBackend = %q, want local", cfg.StoreBackend)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CURATOR_MIN_SCORE", "5")
	t.Setenv("CURATOR_HISTORY_LIMIT", "4")
	t.Setenv("CURATOR_STORE", "charm")
	t.Setenv("OPENAI_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MinReusabilityScore != 5 {
		t.Errorf("MinReusabilityScore = %d, want 5", cfg.MinReusabilityScore)
	}
	if cfg.HistoryLimit != 4 {
		t.Errorf("HistoryLimit = %d, want 4", cfg.HistoryLimit)
	}
	if cfg.StoreBackend != StoreCharm {
		t.Errorf("StoreBackend = %q, want charm", cfg.StoreBackend)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"score too low", func(c *Config) { c.MinReusabilityScore = 0 }, true},
		{"score too high", func(c *Config) { c.MinReusabilityScore = 11 }, true},
		{"zero history", func(c *Config) { c.HistoryLimit = 0 }, true},
		{"zero log cap", func(c *Config) { c.DecisionLogLimit = 0 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"unknown backend", func(c *Config) { c.StoreBackend = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				MinReusabilityScore: 7,
				HistoryLimit:        10,
				DecisionLogLimit:    100,
				MaxRetries:          3,
				StoreBackend:        StoreLocal,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
