// ABOUTME: Process-wide bounded ring buffer of pipeline decisions
// ABOUTME: Insertion-ordered, FIFO eviction past the cap, reset on restart
package core

import (
	"sync"

	"github.com/harper/intent-curator/internal/models"
)

// DefaultDecisionLogLimit caps retained decision entries
const DefaultDecisionLogLimit = 100

// DecisionLog records every pipeline decision for audit and inspection.
// Safe for concurrent use; all writers share one process-wide instance.
type DecisionLog struct {
	mu      sync.Mutex
	limit   int
	entries []models.DecisionLogEntry
}

// NewDecisionLog creates a decision log with the given cap
func NewDecisionLog(limit int) *DecisionLog {
	if limit <= 0 {
		limit = DefaultDecisionLogLimit
	}
	return &DecisionLog{limit: limit}
}

// Append records a decision, evicting the oldest entry past the cap
func (l *DecisionLog) Append(entry models.DecisionLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// Recent returns up to n entries, newest last. n <= 0 returns everything.
func (l *DecisionLog) Recent(n int) []models.DecisionLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]models.DecisionLogEntry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len returns the number of retained entries
func (l *DecisionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
