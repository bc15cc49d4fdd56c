// ABOUTME: NLU engine result type returned by the external detect call
// ABOUTME: Carries the matched intent, confidence, and the engine's reply
package models

// NluResult is the outcome of one detect-intent call against the NLU engine
type NluResult struct {
	IntentName      string   `json:"intent_name"`
	Confidence      float64  `json:"confidence"`
	ReplyText       string   `json:"reply_text"`
	TrainingPhrases []string `json:"training_phrases,omitempty"`
}

// Matched reports whether the NLU engine resolved the utterance to a
// real intent rather than its fallback
func (r *NluResult) Matched() bool {
	return r != nil && r.IntentName != "" && r.IntentName != "Default Fallback Intent"
}
