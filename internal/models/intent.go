// ABOUTME: Intent and IntentMetadata types mirroring the NLU engine's store
// ABOUTME: Protected built-in intents are excluded from all mutation
package models

import (
	"strings"
	"time"
)

// Protected display names that must never be created, updated, or listed
// as candidates by this system.
const (
	DefaultWelcomeIntent  = "Default Welcome Intent"
	DefaultFallbackIntent = "Default Fallback Intent"
)

// IsProtectedIntent reports whether a display name belongs to a built-in
// intent the synchronizer must never touch. Comparison is case-insensitive
// to match the engine's display-name handling.
func IsProtectedIntent(displayName string) bool {
	return strings.EqualFold(displayName, DefaultWelcomeIntent) ||
		strings.EqualFold(displayName, DefaultFallbackIntent)
}

// Intent is a stored conversational pattern in the external NLU engine.
// Name is the store-assigned id; DisplayName is the unique human key.
type Intent struct {
	Name            string   `json:"name,omitempty"`
	DisplayName     string   `json:"display_name"`
	TrainingPhrases []string `json:"training_phrases"`
	Responses       []string `json:"responses"`

	// Fields owned by the engine; carried through updates unchanged.
	InputContexts []string `json:"input_contexts,omitempty"`
	Priority      int      `json:"priority,omitempty"`
}

// HasPhrase reports whether the intent already contains the phrase,
// compared case-insensitively.
func (i *Intent) HasPhrase(phrase string) bool {
	needle := strings.ToLower(strings.TrimSpace(phrase))
	for _, p := range i.TrainingPhrases {
		if strings.ToLower(strings.TrimSpace(p)) == needle {
			return true
		}
	}
	return false
}

// HasResponse reports whether the response text is already present.
func (i *Intent) HasResponse(text string) bool {
	for _, r := range i.Responses {
		if r == text {
			return true
		}
	}
	return false
}

// IntentMetadata is curator-owned metadata persisted independently of the
// intent store, keyed by display name.
type IntentMetadata struct {
	Purpose   string    `json:"purpose,omitempty"`
	Scope     string    `json:"scope,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Merge overlays non-empty fields of other onto m and stamps UpdatedAt.
// CreatedAt is preserved from the existing record.
func (m IntentMetadata) Merge(other IntentMetadata, now time.Time) IntentMetadata {
	merged := m
	if other.Purpose != "" {
		merged.Purpose = other.Purpose
	}
	if other.Scope != "" {
		merged.Scope = other.Scope
	}
	if len(other.Keywords) > 0 {
		merged.Keywords = other.Keywords
	}
	merged.UpdatedAt = now
	return merged
}
