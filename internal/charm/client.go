// ABOUTME: Charm KV client for cloud-synced curator storage
// ABOUTME: Stores intent metadata and archived decisions with SSH key auth
package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harper/intent-curator/internal/models"
)

// Key prefixes for different entity types
const (
	MetadataPrefix = "intentmeta:"
	DecisionPrefix = "decision:"
)

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for the charm store
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "charm.2389.dev"
	}
	return &Config{
		Host:     host,
		DBName:   "intent-curator",
		AutoSync: true,
	}
}

// Store persists curator data in charm KV
type Store struct {
	kv     *kv.KV
	config *Config
	mu     sync.Mutex
}

// NewStore opens the charm KV database for the given config
func NewStore(cfg *Config) (*Store, error) {
	// Set CHARM_HOST before opening KV
	os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	s := &Store{
		kv:     db,
		config: cfg,
	}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return s, nil
}

// Close closes the KV database
func (s *Store) Close() error {
	if s.kv != nil {
		err := s.kv.Close()
		s.kv = nil
		return err
	}
	return nil
}

// syncIfEnabled syncs to cloud after writes
func (s *Store) syncIfEnabled() {
	if s.config.AutoSync {
		_ = s.kv.Sync()
	}
}

// ID returns the charm user ID
func (s *Store) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Sync manually triggers a sync with the cloud
func (s *Store) Sync() error {
	return s.kv.Sync()
}

// metadataKey generates the KV key for one intent's metadata.
// Display names are lowercased so lookups match the synchronizer's
// case-insensitive identity.
func metadataKey(displayName string) string {
	return MetadataPrefix + strings.ToLower(displayName)
}

// Get retrieves metadata for one intent, nil when no record exists
func (s *Store) Get(displayName string) (*models.IntentMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get([]byte(metadataKey(displayName)))
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata for %s: %w", displayName, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var meta models.IntentMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata for %s: %w", displayName, err)
	}
	return &meta, nil
}

// record pairs a display name with its metadata for storage
type record struct {
	DisplayName string                `json:"display_name"`
	Metadata    models.IntentMetadata `json:"metadata"`
}

// Put upserts metadata for one intent
func (s *Store) Put(displayName string, meta models.IntentMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record{DisplayName: displayName, Metadata: meta})
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := s.kv.Set([]byte(metadataKey(displayName)), data); err != nil {
		return fmt.Errorf("failed to set metadata for %s: %w", displayName, err)
	}
	s.syncIfEnabled()
	return nil
}

// All returns every metadata record keyed by its original display name
func (s *Store) All() (map[string]models.IntentMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	out := make(map[string]models.IntentMetadata)
	for _, key := range keys {
		keyStr := string(key)
		if !strings.HasPrefix(keyStr, MetadataPrefix) {
			continue
		}
		data, err := s.kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", keyStr, err)
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", keyStr, err)
		}
		name := rec.DisplayName
		if name == "" {
			name = strings.TrimPrefix(keyStr, MetadataPrefix)
		}
		out[name] = rec.Metadata
	}
	return out, nil
}

// decisionKey orders archived decisions chronologically in the key space
func decisionKey(entry models.DecisionLogEntry) string {
	return DecisionPrefix + entry.Timestamp.UTC().Format("20060102T150405.000000000") + ":" + entry.ID
}

// AppendDecision archives one pipeline decision
func (s *Store) AppendDecision(entry models.DecisionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}
	if err := s.kv.Set([]byte(decisionKey(entry)), data); err != nil {
		return fmt.Errorf("failed to archive decision %s: %w", entry.ID, err)
	}
	s.syncIfEnabled()
	return nil
}

// RecentDecisions returns up to limit archived decisions, newest first
func (s *Store) RecentDecisions(limit int) ([]models.DecisionLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var decisionKeys []string
	for _, key := range keys {
		keyStr := string(key)
		if strings.HasPrefix(keyStr, DecisionPrefix) {
			decisionKeys = append(decisionKeys, keyStr)
		}
	}
	// Keys embed the timestamp, so lexicographic order is chronological
	sort.Strings(decisionKeys)
	if len(decisionKeys) > limit {
		decisionKeys = decisionKeys[len(decisionKeys)-limit:]
	}

	entries := make([]models.DecisionLogEntry, 0, len(decisionKeys))
	for i := len(decisionKeys) - 1; i >= 0; i-- {
		data, err := s.kv.Get([]byte(decisionKeys[i]))
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", decisionKeys[i], err)
		}
		var entry models.DecisionLogEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", decisionKeys[i], err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
