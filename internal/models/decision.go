// ABOUTME: Arbiter decision schema: answer, analyses, and intent action
// ABOUTME: Wire shape matches the JSON object the LLM arbiter must return
package models

// ActionType is the tagged variant over what to do with the intent store
type ActionType string

const (
	// ActionNone - answer only, persist nothing
	ActionNone ActionType = "none"

	// ActionCreateNew - create a fresh intent with the given name
	ActionCreateNew ActionType = "create_new"

	// ActionUpdateMatched - extend the intent the NLU engine matched
	ActionUpdateMatched ActionType = "update_matched"

	// ActionUpdateOther - extend an explicitly named existing intent
	ActionUpdateOther ActionType = "update_other"
)

// ReusabilityAnalysis is the arbiter's estimate of how generalizable the
// utterance is. Score is an integer in [1,10]; a missing analysis counts
// as score 0.
type ReusabilityAnalysis struct {
	Score              int    `json:"score"`
	WouldOthersAsk     bool   `json:"would_others_ask"`
	IsTimeSpecific     bool   `json:"is_time_specific"`
	IsPersonal         bool   `json:"is_personal"`
	IsFactualKnowledge bool   `json:"is_factual_knowledge"`
	Reasoning          string `json:"reasoning"`
}

// MatchAnalysis is the arbiter's opinion on the NLU engine's match. It is
// recorded for audit but never drives control flow.
type MatchAnalysis struct {
	MatchedIntent  string `json:"dialogflow_intent"`
	IsCorrectMatch bool   `json:"is_correct_match"`
	MismatchReason string `json:"mismatch_reason,omitempty"`
}

// IntentAction is the arbiter's persistence proposal.
type IntentAction struct {
	Action           ActionType      `json:"action"`
	Reasoning        string          `json:"reasoning,omitempty"`
	TargetIntent     string          `json:"target_intent,omitempty"`
	NewIntentName    string          `json:"new_intent_name,omitempty"`
	TrainingPhrases  []string        `json:"training_phrases,omitempty"`
	ResponseTemplate string          `json:"response_template,omitempty"`
	Metadata         *IntentMetadata `json:"metadata,omitempty"`
}

// Decision is one validated arbiter response.
type Decision struct {
	Answer      string               `json:"answer"`
	Reusability *ReusabilityAnalysis `json:"reusability_analysis,omitempty"`
	Match       *MatchAnalysis       `json:"match_analysis,omitempty"`
	Action      IntentAction         `json:"intent_action"`
}

// Score returns the reusability score, treating a missing analysis as 0.
func (d *Decision) Score() int {
	if d.Reusability == nil {
		return 0
	}
	return d.Reusability.Score
}
