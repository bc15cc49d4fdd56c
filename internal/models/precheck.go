// ABOUTME: Pre-check verdict types produced by the heuristic gate
// ABOUTME: Tri-state result: save, skip, or defer to the arbiter
package models

// PreCheckVerdict is the heuristic gate's first-pass opinion on an utterance
type PreCheckVerdict string

const (
	// VerdictSave - utterance matched a high-reusability pattern
	VerdictSave PreCheckVerdict = "save"

	// VerdictSkip - utterance matched a low-reusability pattern
	VerdictSkip PreCheckVerdict = "skip"

	// VerdictDefer - no pattern matched, the arbiter decides
	VerdictDefer PreCheckVerdict = "defer"
)

// PreCheckResult is the outcome of the heuristic pre-check pass
type PreCheckResult struct {
	Verdict PreCheckVerdict `json:"verdict"`
	Reason  string          `json:"reason"`
	Score   int             `json:"score"`
}
