// ABOUTME: HeuristicGate classifies utterances before the arbiter runs
// ABOUTME: Ordered first-match-wins pattern tables, pure function of text
package core

import (
	"regexp"
	"strings"

	"github.com/harper/intent-curator/internal/models"
)

// Scores attached to heuristic verdicts. The defer score sits mid-scale
// so the arbiter's own analysis carries the decision.
const (
	lowReusabilityScore  = 2
	highReusabilityScore = 8
	deferScore           = 5
)

// patternRule pairs a compiled pattern with the reason reported on match
type patternRule struct {
	re     *regexp.Regexp
	reason string
}

// Context-dependent utterances: answers to something earlier in the
// conversation, not standalone questions. Evaluated first-match-wins.
var contextPatterns = []patternRule{
	{regexp.MustCompile(`^(yes|no|yeah|yep|nope|nah|ok|okay|sure|fine|maybe)\b`), "short acknowledgement"},
	{regexp.MustCompile(`^(thanks|thank you|thx|ty)\b`), "gratitude"},
	{regexp.MustCompile(`^(it|that|this|they|those|these|he|she)\b`), "pronoun reference"},
	{regexp.MustCompile(`^(tell me more|go on|continue|more|and then|what else)\b`), "continuation request"},
	{regexp.MustCompile(`^(why|how so|really|and)\?*$`), "bare follow-up"},
	{regexp.MustCompile(`^(rock|paper|scissors|hit|stand|fold|heads|tails)\b`), "game move"},
}

// Low-reusability patterns: context-bound or personal utterances that
// should be answered but never persisted.
var lowReusabilityPatterns = []patternRule{
	{regexp.MustCompile(`\b(my|me|mine|myself|i am|i'm|i was|for me)\b`), "personal reference"},
	{regexp.MustCompile(`\b(today|tomorrow|yesterday|tonight|right now|this (morning|week|month|year)|next (week|month|year))\b`), "time-bound request"},
	{regexp.MustCompile(`^(hi|hello|hey|howdy|good (morning|afternoon|evening|night))\b`), "greeting"},
	{regexp.MustCompile(`\b(play|game|joke|riddle|sing|trivia|guess)\b`), "games and entertainment"},
	{regexp.MustCompile(`\b(do you (like|think|prefer|believe)|your favou?rite|what do you think)\b`), "opinion question"},
	{regexp.MustCompile(`\b(news|weather|forecast|stock price|score|election|latest)\b`), "current events"},
}

// High-reusability patterns: factual, generalizable knowledge questions.
var highReusabilityPatterns = []patternRule{
	{regexp.MustCompile(`^(what (is|are)|who (is|was)|define|explain)\b`), "factual question"},
	{regexp.MustCompile(`\bhow (does|do|did) .+ work`), "mechanism question"},
	{regexp.MustCompile(`^how (do|can|to|should) (i|you|we|one)\b`), "how-to question"},
	{regexp.MustCompile(`\b(invented|discovered|founded|created by)\b`), "attribution question"},
	{regexp.MustCompile(`\b(capital|population|area|currency) of\b`), "reference lookup"},
	{regexp.MustCompile(`\b(difference between|compare|versus|vs\.?)\b`), "comparison question"},
	{regexp.MustCompile(`\bexamples? of\b`), "examples request"},
	{regexp.MustCompile(`\b(benefits?|advantages?|pros and cons) of\b`), "benefits question"},
}

// minMeaningfulLength is the threshold below which an utterance is too
// short to be a standalone, reusable question.
const minMeaningfulLength = 10

// HeuristicGate is a stateless pattern classifier. It gives the pipeline
// an a-priori verdict before (and independent of) the LLM arbiter.
type HeuristicGate struct{}

// NewHeuristicGate creates a new gate instance
func NewHeuristicGate() *HeuristicGate {
	return &HeuristicGate{}
}

// ClassifyContext reports whether the utterance only makes sense as a
// reply to earlier conversation. Context-dependent utterances are
// answered but never arbitrated.
func (g *HeuristicGate) ClassifyContext(utterance string) bool {
	text := normalize(utterance)
	for _, rule := range contextPatterns {
		if rule.re.MatchString(text) {
			return true
		}
	}
	return false
}

// PreCheck evaluates the utterance against the low-reusability table,
// then the high-reusability table, first match wins. No match defers
// the verdict to the arbiter.
func (g *HeuristicGate) PreCheck(utterance string) models.PreCheckResult {
	text := normalize(utterance)

	for _, rule := range lowReusabilityPatterns {
		if rule.re.MatchString(text) {
			return models.PreCheckResult{
				Verdict: models.VerdictSkip,
				Reason:  rule.reason,
				Score:   lowReusabilityScore,
			}
		}
	}

	if len(text) < minMeaningfulLength {
		return models.PreCheckResult{
			Verdict: models.VerdictSkip,
			Reason:  "too short to generalize",
			Score:   lowReusabilityScore,
		}
	}

	for _, rule := range highReusabilityPatterns {
		if rule.re.MatchString(text) {
			return models.PreCheckResult{
				Verdict: models.VerdictSave,
				Reason:  rule.reason,
				Score:   highReusabilityScore,
			}
		}
	}

	return models.PreCheckResult{
		Verdict: models.VerdictDefer,
		Reason:  "no heuristic match",
		Score:   deferScore,
	}
}

func normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}
