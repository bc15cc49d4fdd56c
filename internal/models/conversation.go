// ABOUTME: Conversation turn and decision audit entry types
// ABOUTME: Backing records for session history and the decision log
package models

import "time"

// ChatHistoryEntry is one user/bot exchange within a session
type ChatHistoryEntry struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// DecisionLogEntry records one pipeline decision for audit and inspection
type DecisionLogEntry struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	SessionID        string    `json:"session_id"`
	Message          string    `json:"message"`
	NluIntent        string    `json:"nlu_intent"`
	NluConfidence    float64   `json:"nlu_confidence"`
	ReusabilityScore int       `json:"reusability_score"`
	Action           string    `json:"action"`
	Blocked          bool      `json:"blocked"`
}
