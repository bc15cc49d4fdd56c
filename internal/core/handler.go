// ABOUTME: MessageHandler composes gate, NLU, judge, and synchronizer
// ABOUTME: One entry point per utterance; every failure path returns a reply
package core

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harper/intent-curator/internal/models"
)

// ApologyAnswer is returned when the NLU engine itself is unreachable
const ApologyAnswer = "I'm sorry, I'm having trouble understanding right now. Please try again."

// NluEngine is the external engine the pipeline consults per utterance
type NluEngine interface {
	Detect(ctx context.Context, sessionID, text string) (*models.NluResult, error)
	IntentStore
}

// DecisionArchiver persists decision entries beyond the in-memory ring.
// Optional; archive failures never affect the pipeline.
type DecisionArchiver interface {
	AppendDecision(entry models.DecisionLogEntry) error
}

// Response is the transport-facing reply for one utterance
type Response struct {
	Text      string           `json:"text"`
	Sender    string           `json:"sender"`
	Timestamp string           `json:"timestamp"`
	Metadata  ResponseMetadata `json:"metadata"`
}

// ResponseMetadata carries the decision trail for the utterance
type ResponseMetadata struct {
	Intent           string  `json:"intent"`
	Confidence       float64 `json:"confidence"`
	ReusabilityScore int     `json:"reusability_score"`
	ActionTaken      string  `json:"action_taken"`
}

// Handler runs the per-utterance pipeline. Utterances within one session
// are serialized so history order matches send order; sessions run
// concurrently against each other.
type Handler struct {
	gate    *HeuristicGate
	judge   *Judge
	sync    *Synchronizer
	history *SessionHistory
	declog  *DecisionLog
	engine  NluEngine
	meta    MetadataStore
	archive DecisionArchiver

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

// NewHandler wires the pipeline. archive may be nil.
func NewHandler(gate *HeuristicGate, judge *Judge, synchronizer *Synchronizer, history *SessionHistory, declog *DecisionLog, engine NluEngine, meta MetadataStore, archive DecisionArchiver) *Handler {
	return &Handler{
		gate:     gate,
		judge:    judge,
		sync:     synchronizer,
		history:  history,
		declog:   declog,
		engine:   engine,
		meta:     meta,
		archive:  archive,
		sessions: make(map[string]*sync.Mutex),
	}
}

// HandleMessage processes one utterance end to end and always returns a
// well-formed response. Empty input is the transport's problem; it is
// still answered defensively here without touching any collaborator.
func (h *Handler) HandleMessage(ctx context.Context, sessionID, text string) Response {
	text = strings.TrimSpace(text)
	if text == "" {
		return newResponse(ApologyAnswer, ResponseMetadata{Intent: "error", ActionTaken: SyncNone})
	}

	lock := h.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	contextDependent := h.gate.ClassifyContext(text)

	nlu, err := h.engine.Detect(ctx, sessionID, text)
	if err != nil {
		log.Printf("[Handler] NLU detect failed for session %s: %v", sessionID, err)
		return newResponse(ApologyAnswer, ResponseMetadata{Intent: "error", Confidence: 0, ActionTaken: SyncNone})
	}

	if contextDependent {
		answer := nlu.ReplyText
		if answer == "" {
			answer = DefaultAnswer
		}
		h.record(sessionID, text, answer, nlu, 1, SyncNone, true)
		return newResponse(answer, ResponseMetadata{
			Intent:           nlu.IntentName,
			Confidence:       nlu.Confidence,
			ReusabilityScore: 1,
			ActionTaken:      SyncNone,
		})
	}

	pre := h.gate.PreCheck(text)
	candidates := h.loadCandidates(ctx)

	decision, info := h.judge.Judge(ctx, text, nlu, sessionID, candidates, pre)

	actionTaken := SyncNone
	if decision.Action.Action != models.ActionNone {
		res := h.sync.Execute(ctx, decision, nlu.IntentName)
		actionTaken = res.Action
		if !res.Success {
			log.Printf("[Handler] synchronization failed (%s): %s", res.Action, res.Error)
		}
	}

	h.record(sessionID, text, decision.Answer, nlu, decision.Score(), actionTaken, info.Overridden)

	return newResponse(decision.Answer, ResponseMetadata{
		Intent:           nlu.IntentName,
		Confidence:       nlu.Confidence,
		ReusabilityScore: decision.Score(),
		ActionTaken:      actionTaken,
	})
}

// EndSession discards the session's conversational state
func (h *Handler) EndSession(sessionID string) {
	h.history.EndSession(sessionID)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}

// record appends to history, the decision ring, and the durable archive
func (h *Handler) record(sessionID, text, answer string, nlu *models.NluResult, score int, action string, blocked bool) {
	h.history.Append(sessionID, models.ChatHistoryEntry{User: text, Bot: answer})

	entry := models.DecisionLogEntry{
		ID:               uuid.New().String(),
		Timestamp:        time.Now().UTC(),
		SessionID:        sessionID,
		Message:          text,
		NluIntent:        nlu.IntentName,
		NluConfidence:    nlu.Confidence,
		ReusabilityScore: score,
		Action:           action,
		Blocked:          blocked,
	}
	h.declog.Append(entry)

	if h.archive != nil {
		if err := h.archive.AppendDecision(entry); err != nil {
			log.Printf("[Handler] decision archive write failed: %v", err)
		}
	}
}

// loadCandidates assembles the intent catalog with metadata purposes.
// Catalog failures degrade to an empty candidate list.
func (h *Handler) loadCandidates(ctx context.Context) []Candidate {
	intents, err := h.engine.ListIntents(ctx)
	if err != nil {
		log.Printf("[Handler] listing intents failed: %v", err)
		return nil
	}

	metadata := map[string]models.IntentMetadata{}
	if h.meta != nil {
		if all, err := h.meta.All(); err != nil {
			log.Printf("[Handler] metadata load failed: %v", err)
		} else {
			metadata = all
		}
	}

	var candidates []Candidate
	for _, intent := range intents {
		if models.IsProtectedIntent(intent.DisplayName) {
			continue
		}
		candidates = append(candidates, Candidate{
			DisplayName: intent.DisplayName,
			Phrases:     intent.TrainingPhrases,
			Purpose:     metadata[intent.DisplayName].Purpose,
		})
	}
	return candidates
}

func (h *Handler) sessionLock(sessionID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = &sync.Mutex{}
	}
	return h.sessions[sessionID]
}

func newResponse(text string, meta ResponseMetadata) Response {
	return Response{
		Text:      text,
		Sender:    "bot",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Metadata:  meta,
	}
}
