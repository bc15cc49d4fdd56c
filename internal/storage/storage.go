// ABOUTME: Metadata store interface and in-memory implementation
// ABOUTME: Durable backends: local sqlite (local.go) and charm kv
package storage

import (
	"sync"

	"github.com/harper/intent-curator/internal/models"
)

// MetadataStore persists intent metadata keyed by display name.
// Get returns nil without error when no record exists.
type MetadataStore interface {
	Get(displayName string) (*models.IntentMetadata, error)
	Put(displayName string, meta models.IntentMetadata) error
	All() (map[string]models.IntentMetadata, error)
	Close() error
}

// MemoryStore is an in-memory MetadataStore for tests and ephemeral runs
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]models.IntentMetadata
}

// NewMemoryStore creates an empty in-memory metadata store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]models.IntentMetadata)}
}

func (s *MemoryStore) Get(displayName string) (*models.IntentMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.data[displayName]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *MemoryStore) Put(displayName string, meta models.IntentMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[displayName] = meta
	return nil
}

func (s *MemoryStore) All() (map[string]models.IntentMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.IntentMetadata, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
