// ABOUTME: Judge orchestrates LLM arbitration of utterance reusability
// ABOUTME: Builds the prompt, validates the response, applies overrides
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/harper/intent-curator/internal/models"
)

// DefaultAnswer is returned when arbitration fails or no arbiter is wired
const DefaultAnswer = "I'd be happy to help! Could you tell me more?"

// DefaultMinScore is the reusability threshold below which persistence
// is mechanically blocked, whatever the arbiter proposed.
const DefaultMinScore = 7

// Arbiter is the external LLM the judge consults
type Arbiter interface {
	Arbitrate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Candidate is one existing intent presented to the arbiter as a
// potential update target.
type Candidate struct {
	DisplayName string
	Phrases     []string
	Purpose     string
}

// JudgeInfo reports how the decision was reached, for audit logging.
// Degraded means the arbiter failed and the safe default was substituted;
// Overridden means an enforcement rule forced the action to none.
type JudgeInfo struct {
	Degraded       bool
	Overridden     bool
	OverrideReason string
}

// Judge wraps the LLM arbiter with mechanical safety rails. The arbiter
// is statistical; the overrides guarantee the rarely-persist policy holds
// even when it errs toward saving.
type Judge struct {
	arbiter  Arbiter
	history  *SessionHistory
	minScore int
}

// NewJudge creates a judge. A nil arbiter is allowed: every call then
// degrades to the safe default (answer only, no persistence).
func NewJudge(arbiter Arbiter, history *SessionHistory, minScore int) *Judge {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Judge{
		arbiter:  arbiter,
		history:  history,
		minScore: minScore,
	}
}

const systemPrompt = `You are the arbiter for a conversational intent curator. Given a user utterance, the NLU engine's match, existing intents, and a heuristic pre-check, you decide two things:
1. The best answer to give the user.
2. Whether this utterance represents generalizable knowledge worth persisting as a conversational intent.

Decision rules:
- Persist RARELY. Only knowledge that many independent users would ask for belongs in the intent store.
- reusability_analysis.score is an integer 1-10. Scores below 7 must use action "none".
- Personal, time-bound, or context-dependent utterances always get action "none".
- "update_matched" extends the intent the NLU engine matched with new training phrases.
- "update_other" extends a different existing intent; set target_intent to its display name.
- "create_new" creates a fresh intent; set new_intent_name (lowercase, underscores) and training_phrases.
- Never target the built-in welcome or fallback intents.

Return ONLY a single JSON object with this exact shape. No additional text.
{
  "answer": "string",
  "reusability_analysis": {"score": 1, "would_others_ask": false, "is_time_specific": false, "is_personal": false, "is_factual_knowledge": false, "reasoning": "string"},
  "match_analysis": {"dialogflow_intent": "string", "is_correct_match": false, "mismatch_reason": "string"},
  "intent_action": {"action": "none|update_matched|update_other|create_new", "reasoning": "string", "target_intent": "string", "new_intent_name": "string", "training_phrases": ["string"], "response_template": "string", "metadata": {"purpose": "string", "scope": "string", "keywords": ["string"]}}
}`

// Judge runs one arbitration: prompt construction, LLM call, response
// validation, enforcement overrides. It never returns an error; failures
// degrade to the safe default decision.
func (j *Judge) Judge(ctx context.Context, utterance string, nlu *models.NluResult, sessionID string, candidates []Candidate, pre models.PreCheckResult) (models.Decision, JudgeInfo) {
	if j.arbiter == nil {
		log.Printf("[Judge] no arbiter configured, using default decision")
		return fallbackDecision(), JudgeInfo{Degraded: true}
	}

	userPrompt := j.buildUserPrompt(utterance, nlu, sessionID, candidates, pre)

	raw, err := j.arbiter.Arbitrate(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("[Judge] arbitration call failed: %v", err)
		return fallbackDecision(), JudgeInfo{Degraded: true}
	}

	decision, err := parseDecision(raw)
	if err != nil {
		log.Printf("[Judge] invalid arbiter response: %v", err)
		return fallbackDecision(), JudgeInfo{Degraded: true}
	}

	return j.enforce(decision, pre)
}

// buildUserPrompt renders the structured context the arbiter decides on
func (j *Judge) buildUserPrompt(utterance string, nlu *models.NluResult, sessionID string, candidates []Candidate, pre models.PreCheckResult) string {
	var b strings.Builder

	b.WriteString("## Conversation history\n")
	entries := j.history.Get(sessionID)
	if len(entries) == 0 {
		b.WriteString("(none)\n")
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "User: %s\nBot: %s\n", e.User, e.Bot)
	}

	fmt.Fprintf(&b, "\n## Utterance\n%s\n", utterance)

	b.WriteString("\n## NLU match\n")
	if nlu.Matched() {
		fmt.Fprintf(&b, "intent: %s (confidence %.2f)\n", nlu.IntentName, nlu.Confidence)
		if len(nlu.TrainingPhrases) > 0 {
			fmt.Fprintf(&b, "training phrases: %s\n", strings.Join(nlu.TrainingPhrases, "; "))
		}
	} else {
		b.WriteString("(fallback, no intent matched)\n")
	}

	b.WriteString("\n## Existing intents\n")
	if len(candidates) == 0 {
		b.WriteString("(none)\n")
	}
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s", c.DisplayName)
		if c.Purpose != "" {
			fmt.Fprintf(&b, " — purpose: %s", c.Purpose)
		}
		if len(c.Phrases) > 0 {
			fmt.Fprintf(&b, " — examples: %s", strings.Join(samplePhrases(c.Phrases, 3), "; "))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n## Heuristic pre-check\nverdict: %s (score %d, %s)\n", pre.Verdict, pre.Score, pre.Reason)

	return b.String()
}

// enforce applies the mechanical overrides. The pre-check rejection has
// priority; the score threshold applies only if the pre-check passed.
func (j *Judge) enforce(decision models.Decision, pre models.PreCheckResult) (models.Decision, JudgeInfo) {
	if decision.Action.Action == models.ActionNone {
		return decision, JudgeInfo{}
	}

	if pre.Verdict == models.VerdictSkip {
		log.Printf("[Judge] override: pre-check rejected persistence (%s), forcing action none", pre.Reason)
		decision.Action = models.IntentAction{
			Action:    models.ActionNone,
			Reasoning: "pre-check rejection: " + pre.Reason,
		}
		return decision, JudgeInfo{Overridden: true, OverrideReason: "pre-check rejection"}
	}

	if decision.Score() < j.minScore {
		log.Printf("[Judge] override: reusability score %d below %d, forcing action none", decision.Score(), j.minScore)
		decision.Action = models.IntentAction{
			Action:    models.ActionNone,
			Reasoning: fmt.Sprintf("score %d below threshold %d", decision.Score(), j.minScore),
		}
		return decision, JudgeInfo{Overridden: true, OverrideReason: "score too low"}
	}

	return decision, JudgeInfo{}
}

// fallbackDecision is the safe default substituted on any judge failure
func fallbackDecision() models.Decision {
	return models.Decision{
		Answer: DefaultAnswer,
		Action: models.IntentAction{Action: models.ActionNone},
	}
}

// parseDecision validates the arbiter's raw response against the
// decision schema. Anything that is not a single JSON object with an
// intent_action is a parse failure.
func parseDecision(raw string) (models.Decision, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var decision models.Decision
	if err := json.Unmarshal([]byte(text), &decision); err != nil {
		return models.Decision{}, fmt.Errorf("response is not a JSON object: %w", err)
	}

	// A missing intent_action is a schema violation. Unrecognized action
	// values pass through; the synchronizer reports them as unknown.
	if decision.Action.Action == "" {
		return models.Decision{}, fmt.Errorf("intent_action.action missing")
	}

	if decision.Answer == "" {
		decision.Answer = DefaultAnswer
	}

	// Score is defined as an integer in [1,10]; clamp arbiter drift.
	if decision.Reusability != nil {
		if decision.Reusability.Score < 1 {
			decision.Reusability.Score = 1
		}
		if decision.Reusability.Score > 10 {
			decision.Reusability.Score = 10
		}
	}

	return decision, nil
}

func samplePhrases(phrases []string, n int) []string {
	if len(phrases) <= n {
		return phrases
	}
	return phrases[:n]
}
