// ABOUTME: Synchronizer turns approved decisions into intent-store writes
// ABOUTME: Idempotent create/update with phrase dedup and metadata merge
package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/harper/intent-curator/internal/models"
)

// Result action values reported by Execute
const (
	SyncNone          = "none"
	SyncCreated       = "created"
	SyncUpdated       = "updated"
	SyncNoChanges     = "no_changes"
	SyncBlockedScore  = "blocked_low_score"
	SyncInvalidData   = "invalid_data"
	SyncNoTarget      = "no_target"
	SyncUnknownAction = "unknown"
	SyncError         = "error"
)

// IntentStore is the slice of the NLU engine the synchronizer writes to
type IntentStore interface {
	ListIntents(ctx context.Context) ([]models.Intent, error)
	CreateIntent(ctx context.Context, intent models.Intent) error
	UpdateIntent(ctx context.Context, intent models.Intent) error
}

// MetadataStore persists curator-owned intent metadata by display name.
// Get returns nil without error when no record exists.
type MetadataStore interface {
	Get(displayName string) (*models.IntentMetadata, error)
	Put(displayName string, meta models.IntentMetadata) error
	All() (map[string]models.IntentMetadata, error)
}

// SyncResult reports the outcome of one synchronization
type SyncResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Intent  string `json:"intent,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Synchronizer executes intent actions against the external store. Its
// score re-check is deliberately independent of the judge's overrides:
// defense in depth around the only component that mutates the store.
type Synchronizer struct {
	store    IntentStore
	meta     MetadataStore
	minScore int

	// Named locks serialize read-check-write per display name so two
	// sessions proposing the same intent cannot both create it.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSynchronizer creates a synchronizer with the given score threshold
func NewSynchronizer(store IntentStore, meta MetadataStore, minScore int) *Synchronizer {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Synchronizer{
		store:    store,
		meta:     meta,
		minScore: minScore,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Execute applies the decision's intent action. matchedIntent is the
// display name the NLU engine matched, used by update_matched. Errors
// from the external store are reported in the result, never propagated.
func (s *Synchronizer) Execute(ctx context.Context, decision models.Decision, matchedIntent string) SyncResult {
	action := decision.Action.Action
	if action == models.ActionNone {
		return SyncResult{Success: true, Action: SyncNone}
	}

	if decision.Score() < s.minScore {
		return SyncResult{
			Success: false,
			Action:  SyncBlockedScore,
			Error:   fmt.Sprintf("reusability score %d below threshold %d", decision.Score(), s.minScore),
		}
	}

	switch action {
	case models.ActionUpdateMatched, models.ActionUpdateOther:
		target := matchedIntent
		if action == models.ActionUpdateOther {
			target = decision.Action.TargetIntent
		}
		if strings.TrimSpace(target) == "" {
			return SyncResult{Success: false, Action: SyncNoTarget, Error: "no target intent to update"}
		}
		return s.update(ctx, target, decision)

	case models.ActionCreateNew:
		return s.create(ctx, decision.Action.NewIntentName, decision)

	default:
		return SyncResult{Success: false, Action: SyncUnknownAction, Error: fmt.Sprintf("unknown action %q", action)}
	}
}

// update merges new phrases into an existing intent. A missing target
// falls back to creating an intent under the target name.
func (s *Synchronizer) update(ctx context.Context, target string, decision models.Decision) SyncResult {
	if models.IsProtectedIntent(target) {
		return SyncResult{Success: false, Action: SyncInvalidData, Error: fmt.Sprintf("intent %q is protected", target)}
	}

	lock := s.lockFor(target)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.find(ctx, target)
	if err != nil {
		return SyncResult{Success: false, Action: SyncError, Error: err.Error()}
	}
	if existing == nil {
		return s.createLocked(ctx, target, decision)
	}

	newPhrases := dedupPhrases(decision.Action.TrainingPhrases, existing)
	if len(newPhrases) == 0 {
		return SyncResult{Success: true, Action: SyncNoChanges, Intent: existing.DisplayName}
	}

	merged := *existing
	merged.TrainingPhrases = append(append([]string{}, existing.TrainingPhrases...), newPhrases...)
	merged.Responses = append([]string{}, existing.Responses...)
	if t := decision.Action.ResponseTemplate; t != "" && !existing.HasResponse(t) {
		merged.Responses = append(merged.Responses, t)
	}

	if err := s.store.UpdateIntent(ctx, merged); err != nil {
		return SyncResult{Success: false, Action: SyncError, Error: err.Error()}
	}

	s.persistMetadata(merged.DisplayName, decision.Action.Metadata, false)
	return SyncResult{Success: true, Action: SyncUpdated, Intent: merged.DisplayName}
}

// create validates and creates a new intent under its own lock
func (s *Synchronizer) create(ctx context.Context, name string, decision models.Decision) SyncResult {
	name = strings.TrimSpace(name)
	if name == "" || len(cleanPhrases(decision.Action.TrainingPhrases)) == 0 {
		return SyncResult{Success: false, Action: SyncInvalidData, Error: "create_new requires an intent name and training phrases"}
	}
	if models.IsProtectedIntent(name) {
		return SyncResult{Success: false, Action: SyncInvalidData, Error: fmt.Sprintf("intent %q is protected", name)}
	}

	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent session may have created this name already; merge
	// instead of issuing a duplicate create.
	existing, err := s.find(ctx, name)
	if err != nil {
		return SyncResult{Success: false, Action: SyncError, Error: err.Error()}
	}
	if existing != nil {
		newPhrases := dedupPhrases(decision.Action.TrainingPhrases, existing)
		if len(newPhrases) == 0 {
			return SyncResult{Success: true, Action: SyncNoChanges, Intent: existing.DisplayName}
		}
		merged := *existing
		merged.TrainingPhrases = append(append([]string{}, existing.TrainingPhrases...), newPhrases...)
		if err := s.store.UpdateIntent(ctx, merged); err != nil {
			return SyncResult{Success: false, Action: SyncError, Error: err.Error()}
		}
		s.persistMetadata(merged.DisplayName, decision.Action.Metadata, false)
		return SyncResult{Success: true, Action: SyncUpdated, Intent: merged.DisplayName}
	}

	return s.createLocked(ctx, name, decision)
}

// createLocked builds and stores a new intent. Callers hold the name lock.
func (s *Synchronizer) createLocked(ctx context.Context, name string, decision models.Decision) SyncResult {
	phrases := cleanPhrases(decision.Action.TrainingPhrases)
	if len(phrases) == 0 {
		return SyncResult{Success: false, Action: SyncInvalidData, Error: "create_new requires training phrases"}
	}

	response := decision.Action.ResponseTemplate
	if response == "" {
		response = decision.Answer
	}

	intent := models.Intent{
		DisplayName:     name,
		TrainingPhrases: phrases,
		Responses:       []string{response},
	}

	if err := s.store.CreateIntent(ctx, intent); err != nil {
		return SyncResult{Success: false, Action: SyncError, Error: err.Error()}
	}

	s.persistMetadata(name, decision.Action.Metadata, true)
	return SyncResult{Success: true, Action: SyncCreated, Intent: name}
}

// persistMetadata merges and saves curator metadata. Metadata lives in
// the curator's own store, so a write failure degrades to a log line
// rather than failing the synchronization.
func (s *Synchronizer) persistMetadata(displayName string, given *models.IntentMetadata, created bool) {
	now := time.Now().UTC()

	var incoming models.IntentMetadata
	if given != nil {
		incoming = *given
	}

	existing, err := s.meta.Get(displayName)
	if err != nil {
		log.Printf("[Sync] metadata read failed for %q: %v", displayName, err)
	}

	var merged models.IntentMetadata
	if existing != nil {
		merged = existing.Merge(incoming, now)
	} else {
		merged = incoming
		merged.UpdatedAt = now
	}
	if created || merged.CreatedAt.IsZero() {
		merged.CreatedAt = now
	}

	if err := s.meta.Put(displayName, merged); err != nil {
		log.Printf("[Sync] metadata write failed for %q: %v", displayName, err)
	}
}

// find returns the stored intent with the given display name, nil if absent
func (s *Synchronizer) find(ctx context.Context, displayName string) (*models.Intent, error) {
	intents, err := s.store.ListIntents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing intents: %w", err)
	}
	for i := range intents {
		if strings.EqualFold(intents[i].DisplayName, displayName) {
			return &intents[i], nil
		}
	}
	return nil, nil
}

// lockFor returns the process-wide mutex for a display name
func (s *Synchronizer) lockFor(displayName string) *sync.Mutex {
	key := strings.ToLower(strings.TrimSpace(displayName))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[key] == nil {
		s.locks[key] = &sync.Mutex{}
	}
	return s.locks[key]
}

// dedupPhrases filters proposed phrases down to ones the intent lacks,
// compared case-insensitively, dropping empties and in-batch duplicates.
func dedupPhrases(proposed []string, intent *models.Intent) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range proposed {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] || intent.HasPhrase(trimmed) {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

// cleanPhrases trims and dedups a proposed phrase list
func cleanPhrases(proposed []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range proposed {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}
