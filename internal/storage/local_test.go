// ABOUTME: Tests for the SQLite-backed local store
// ABOUTME: Metadata round trips, upserts, and the decision archive

package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/intent-curator/internal/models"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := OpenLocalInMemory()
	if err != nil {
		t.Fatalf("OpenLocalInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLocalStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	meta, err := store.Get("science_photosynthesis_definition")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if meta != nil {
		t.Errorf("Get() = %+v, want nil for missing record", meta)
	}
}

func TestLocalStore_PutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	in := models.IntentMetadata{
		Purpose:   "Explains what photosynthesis is",
		Scope:     "general science",
		Keywords:  []string{"photosynthesis", "biology"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Put("science_photosynthesis_definition", in); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get("science_photosynthesis_definition")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil after Put")
	}
	if got.Purpose != in.Purpose || got.Scope != in.Scope {
		t.Errorf("Get() = %+v", got)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "photosynthesis" {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
	}
}

func TestLocalStore_PutUpserts(t *testing.T) {
	store := newTestStore(t)
	created := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	if err := store.Put("faq_hours", models.IntentMetadata{Purpose: "old", CreatedAt: created, UpdatedAt: created}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	updated := time.Now().UTC().Truncate(time.Second)
	if err := store.Put("faq_hours", models.IntentMetadata{Purpose: "new", CreatedAt: created, UpdatedAt: updated}); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("All() len = %d, want 1", len(all))
	}
	meta := all["faq_hours"]
	if meta.Purpose != "new" {
		t.Errorf("Purpose = %q, want new", meta.Purpose)
	}
	if !meta.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want preserved %v", meta.CreatedAt, created)
	}
}

func TestLocalStore_DecisionArchive(t *testing.T) {
	store := newTestStore(t)
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		entry := models.DecisionLogEntry{
			ID:               uuid.New().String(),
			Timestamp:        base.Add(time.Duration(i) * time.Second),
			SessionID:        "s1",
			Message:          "What is photosynthesis?",
			NluIntent:        "Default Fallback Intent",
			NluConfidence:    0.3,
			ReusabilityScore: 9,
			Action:           "created",
			Blocked:          false,
		}
		if err := store.AppendDecision(entry); err != nil {
			t.Fatalf("AppendDecision(%d) error = %v", i, err)
		}
	}

	entries, err := store.RecentDecisions(3)
	if err != nil {
		t.Fatalf("RecentDecisions() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if !entries[0].Timestamp.After(entries[2].Timestamp) {
		t.Errorf("entries not newest-first: %v then %v", entries[0].Timestamp, entries[2].Timestamp)
	}
	if entries[0].ReusabilityScore != 9 || entries[0].Action != "created" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if meta, err := store.Get("x"); err != nil || meta != nil {
		t.Errorf("Get missing = (%v, %v), want (nil, nil)", meta, err)
	}

	if err := store.Put("x", models.IntentMetadata{Purpose: "p"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	meta, err := store.Get("x")
	if err != nil || meta == nil || meta.Purpose != "p" {
		t.Errorf("Get() = (%+v, %v)", meta, err)
	}

	// Returned map is a copy
	all, _ := store.All()
	delete(all, "x")
	if again, _ := store.All(); len(again) != 1 {
		t.Error("All() must return a copy")
	}
}
