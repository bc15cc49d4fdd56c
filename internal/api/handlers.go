// ABOUTME: HTTP handlers for the curator REST surface
// ABOUTME: Chat endpoint plus decision, intent, metadata, and health reads
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/harper/intent-curator/internal/core"
	"github.com/harper/intent-curator/internal/models"
)

// Catalog is the read-only slice of the NLU agent the API exposes
type Catalog interface {
	ListIntents(ctx context.Context) ([]models.Intent, error)
	CheckConnection(ctx context.Context) error
}

// APIHandler serves the curator pipeline over HTTP
type APIHandler struct {
	handler *core.Handler
	declog  *core.DecisionLog
	meta    core.MetadataStore
	catalog Catalog
}

// NewAPIHandler wires the REST surface. meta and catalog may be nil.
func NewAPIHandler(handler *core.Handler, declog *core.DecisionLog, meta core.MetadataStore, catalog Catalog) *APIHandler {
	return &APIHandler{
		handler: handler,
		declog:  declog,
		meta:    meta,
		catalog: catalog,
	}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// ChatHandler runs one utterance through the pipeline
func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "Field 'text' is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	resp := h.handler.HandleMessage(r.Context(), req.SessionID, req.Text)
	writeJSON(w, http.StatusOK, resp)
}

// EndSessionHandler discards one session's conversational state
func (h *APIHandler) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "Field 'session_id' is required", http.StatusBadRequest)
		return
	}

	h.handler.EndSession(req.SessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended", "session_id": req.SessionID})
}

// DecisionsHandler returns recent decision entries, newest first
func (h *APIHandler) DecisionsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries := h.declog.Recent(limit)
	if entries == nil {
		entries = []models.DecisionLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"decisions": entries,
		"count":     len(entries),
	})
}

// intentView is an intent joined with its curator metadata
type intentView struct {
	models.Intent
	Metadata *models.IntentMetadata `json:"metadata,omitempty"`
}

// IntentsHandler returns the agent's intent catalog with merged metadata
func (h *APIHandler) IntentsHandler(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		http.Error(w, "Intent catalog not configured", http.StatusServiceUnavailable)
		return
	}

	intents, err := h.catalog.ListIntents(r.Context())
	if err != nil {
		log.Printf("[API] listing intents failed: %v", err)
		http.Error(w, "Failed to list intents", http.StatusBadGateway)
		return
	}

	metadata := map[string]models.IntentMetadata{}
	if h.meta != nil {
		if all, err := h.meta.All(); err != nil {
			log.Printf("[API] metadata load failed: %v", err)
		} else {
			metadata = all
		}
	}

	views := make([]intentView, 0, len(intents))
	for _, intent := range intents {
		view := intentView{Intent: intent}
		if meta, ok := metadata[intent.DisplayName]; ok {
			m := meta
			view.Metadata = &m
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"intents": views,
		"count":   len(views),
	})
}

// MetadataHandler dumps the raw metadata map
func (h *APIHandler) MetadataHandler(w http.ResponseWriter, r *http.Request) {
	if h.meta == nil {
		http.Error(w, "Metadata store not configured", http.StatusServiceUnavailable)
		return
	}

	all, err := h.meta.All()
	if err != nil {
		log.Printf("[API] metadata load failed: %v", err)
		http.Error(w, "Failed to load metadata", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metadata": all,
		"count":    len(all),
	})
}

// HealthHandler reports whether the NLU agent is reachable
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "degraded", "error": "nlu agent not configured"})
		return
	}
	if err := h.catalog.CheckConnection(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] encoding response failed: %v", err)
	}
}
