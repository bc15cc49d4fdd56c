// ABOUTME: Centralized configuration for the intent curator service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backend selectors for intent metadata
const (
	StoreLocal = "local"
	StoreCharm = "charm"
)

// Config holds all configuration for the curator
type Config struct {
	// OpenAI settings
	OpenAIKey  string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// NLU agent settings
	NluAgentURL string
	NluTimeout  time.Duration

	// Decision policy
	MinReusabilityScore int
	HistoryLimit        int
	DecisionLogLimit    int

	// Storage settings
	StoreBackend string
	CharmHost    string
	CharmDBName  string
	AutoSync     bool

	// HTTP settings
	HTTPAddr string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("CURATOR_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:          getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:          getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		NluAgentURL:         os.Getenv("NLU_AGENT_URL"),
		NluTimeout:          getEnvDuration("NLU_TIMEOUT", 15*time.Second),
		MinReusabilityScore: getEnvInt("CURATOR_MIN_SCORE", 7),
		HistoryLimit:        getEnvInt("CURATOR_HISTORY_LIMIT", 10),
		DecisionLogLimit:    getEnvInt("CURATOR_LOG_LIMIT", 100),
		StoreBackend:        getEnv("CURATOR_STORE", StoreLocal),
		CharmHost:           getEnv("CHARM_HOST", "charm.2389.dev"),
		CharmDBName:         getEnv("CHARM_DB", "intent-curator"),
		AutoSync:            getEnvBool("CHARM_AUTO_SYNC", true),
		HTTPAddr:            getEnv("CURATOR_HTTP_ADDR", ":8080"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MinReusabilityScore < 1 || c.MinReusabilityScore > 10 {
		return fmt.Errorf("CURATOR_MIN_SCORE must be 1-10, got %d", c.MinReusabilityScore)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("CURATOR_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.DecisionLogLimit < 1 {
		return fmt.Errorf("CURATOR_LOG_LIMIT must be positive, got %d", c.DecisionLogLimit)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.StoreBackend != StoreLocal && c.StoreBackend != StoreCharm {
		return fmt.Errorf("CURATOR_STORE must be %q or %q, got %q", StoreLocal, StoreCharm, c.StoreBackend)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
