// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Store selection, NLU client construction, output helpers
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/harper/intent-curator/internal/charm"
	"github.com/harper/intent-curator/internal/config"
	"github.com/harper/intent-curator/internal/models"
	"github.com/harper/intent-curator/internal/nlu"
	"github.com/harper/intent-curator/internal/storage"
)

// curatorStore is what the CLI needs from a storage backend
type curatorStore interface {
	Get(displayName string) (*models.IntentMetadata, error)
	Put(displayName string, meta models.IntentMetadata) error
	All() (map[string]models.IntentMetadata, error)
	AppendDecision(entry models.DecisionLogEntry) error
	RecentDecisions(limit int) ([]models.DecisionLogEntry, error)
	Close() error
}

// openStore opens the backend selected by CURATOR_STORE
func openStore(cfg *config.Config) (curatorStore, error) {
	if cfg.StoreBackend == config.StoreCharm {
		return charm.NewStore(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
	}
	return storage.OpenLocal(storage.DefaultDBPath())
}

// newAgentClient builds the NLU client from config, erroring when unset
func newAgentClient(cfg *config.Config) (*nlu.Client, error) {
	if cfg.NluAgentURL == "" {
		return nil, fmt.Errorf("NLU_AGENT_URL is not set")
	}
	return nlu.NewClient(cfg.NluAgentURL, cfg.NluTimeout), nil
}

// useJSON reports whether output should be machine-readable
func useJSON() bool {
	return format == "json"
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
