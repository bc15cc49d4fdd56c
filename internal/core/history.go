// ABOUTME: Per-session bounded conversation history with FIFO eviction
// ABOUTME: Sessions are created lazily and destroyed when the session ends
package core

import (
	"sync"

	"github.com/harper/intent-curator/internal/models"
)

// DefaultHistoryLimit caps turns retained per session
const DefaultHistoryLimit = 10

// SessionHistory holds the recent user/bot exchanges for each session.
// All methods are safe for concurrent use.
type SessionHistory struct {
	mu       sync.Mutex
	limit    int
	sessions map[string][]models.ChatHistoryEntry
}

// NewSessionHistory creates a history store with the given per-session cap
func NewSessionHistory(limit int) *SessionHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &SessionHistory{
		limit:    limit,
		sessions: make(map[string][]models.ChatHistoryEntry),
	}
}

// Append pushes an exchange onto the session's queue, creating it on
// first use and evicting the oldest entry past the cap.
func (h *SessionHistory) Append(sessionID string, entry models.ChatHistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := append(h.sessions[sessionID], entry)
	if len(entries) > h.limit {
		entries = entries[len(entries)-h.limit:]
	}
	h.sessions[sessionID] = entries
}

// Get returns a copy of the session's history, oldest first
func (h *SessionHistory) Get(sessionID string) []models.ChatHistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.sessions[sessionID]
	out := make([]models.ChatHistoryEntry, len(entries))
	copy(out, entries)
	return out
}

// EndSession discards the session's history
func (h *SessionHistory) EndSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}

// Len returns the number of entries held for a session
func (h *SessionHistory) Len(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[sessionID])
}
