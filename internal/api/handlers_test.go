// ABOUTME: Tests for the REST surface using httptest and a stub engine
// ABOUTME: Request validation, catalog merging, and health reporting

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harper/intent-curator/internal/core"
	"github.com/harper/intent-curator/internal/models"
)

// stubEngine is an NLU engine stub; the arbiter is left nil so the
// pipeline degrades deterministically to none.
type stubEngine struct {
	intents   []models.Intent
	healthErr error
}

func (s *stubEngine) Detect(ctx context.Context, sessionID, text string) (*models.NluResult, error) {
	return &models.NluResult{IntentName: "faq_hours", Confidence: 0.8, ReplyText: "We are open 9-5."}, nil
}

func (s *stubEngine) ListIntents(ctx context.Context) ([]models.Intent, error) {
	return s.intents, nil
}

func (s *stubEngine) CreateIntent(ctx context.Context, intent models.Intent) error { return nil }
func (s *stubEngine) UpdateIntent(ctx context.Context, intent models.Intent) error { return nil }
func (s *stubEngine) CheckConnection(ctx context.Context) error                    { return s.healthErr }

type stubMeta struct {
	data map[string]models.IntentMetadata
	err  error
}

func (s *stubMeta) Get(name string) (*models.IntentMetadata, error) {
	if m, ok := s.data[name]; ok {
		return &m, nil
	}
	return nil, nil
}
func (s *stubMeta) Put(name string, meta models.IntentMetadata) error {
	s.data[name] = meta
	return nil
}
func (s *stubMeta) All() (map[string]models.IntentMetadata, error) {
	return s.data, s.err
}

func testServer(t *testing.T, engine *stubEngine, meta *stubMeta) (*httptest.Server, *core.DecisionLog) {
	t.Helper()
	history := core.NewSessionHistory(10)
	declog := core.NewDecisionLog(100)
	judge := core.NewJudge(nil, history, 7)
	synchronizer := core.NewSynchronizer(engine, meta, 7)
	handler := core.NewHandler(core.NewHeuristicGate(), judge, synchronizer, history, declog, engine, meta, nil)

	srv := httptest.NewServer(NewRouter(NewAPIHandler(handler, declog, meta, engine)))
	t.Cleanup(srv.Close)
	return srv, declog
}

func TestChatEndpoint(t *testing.T) {
	engine := &stubEngine{}
	srv, declog := testServer(t, engine, &stubMeta{data: map[string]models.IntentMetadata{}})

	resp, err := http.Post(srv.URL+"/api/chat", "application/json",
		strings.NewReader(`{"session_id":"s1","text":"What is photosynthesis?"}`))
	if err != nil {
		t.Fatalf("POST /api/chat error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body core.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Sender != "bot" || body.Text == "" {
		t.Errorf("response = %+v", body)
	}
	if declog.Len() != 1 {
		t.Errorf("declog.Len() = %d, want 1", declog.Len())
	}
}

func TestChatEndpoint_RequiresText(t *testing.T) {
	srv, _ := testServer(t, &stubEngine{}, &stubMeta{data: map[string]models.IntentMetadata{}})

	resp, err := http.Post(srv.URL+"/api/chat", "application/json",
		strings.NewReader(`{"session_id":"s1","text":"   "}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDecisionsEndpoint(t *testing.T) {
	srv, declog := testServer(t, &stubEngine{}, &stubMeta{data: map[string]models.IntentMetadata{}})
	for i := 0; i < 3; i++ {
		declog.Append(models.DecisionLogEntry{ID: "d", SessionID: "s1", Action: "none"})
	}

	resp, err := http.Get(srv.URL + "/api/decisions?limit=2")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Decisions []models.DecisionLogEntry `json:"decisions"`
		Count     int                       `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Count != 2 || len(body.Decisions) != 2 {
		t.Errorf("body = %+v, want 2 entries", body)
	}
}

func TestDecisionsEndpoint_BadLimit(t *testing.T) {
	srv, _ := testServer(t, &stubEngine{}, &stubMeta{data: map[string]models.IntentMetadata{}})

	resp, err := http.Get(srv.URL + "/api/decisions?limit=zero")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestIntentsEndpoint_MergesMetadata(t *testing.T) {
	engine := &stubEngine{intents: []models.Intent{
		{DisplayName: "faq_hours", TrainingPhrases: []string{"when are you open"}},
		{DisplayName: "faq_parking"},
	}}
	meta := &stubMeta{data: map[string]models.IntentMetadata{
		"faq_hours": {Purpose: "Answers opening-hours questions"},
	}}
	srv, _ := testServer(t, engine, meta)

	resp, err := http.Get(srv.URL + "/api/intents")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Intents []struct {
			DisplayName string                 `json:"display_name"`
			Metadata    *models.IntentMetadata `json:"metadata"`
		} `json:"intents"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	for _, intent := range body.Intents {
		switch intent.DisplayName {
		case "faq_hours":
			if intent.Metadata == nil || intent.Metadata.Purpose == "" {
				t.Error("faq_hours should carry metadata")
			}
		case "faq_parking":
			if intent.Metadata != nil {
				t.Error("faq_parking should have no metadata")
			}
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	engine := &stubEngine{}
	srv, _ := testServer(t, engine, &stubMeta{data: map[string]models.IntentMetadata{}})

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body["status"] != "connected" {
		t.Errorf("status = %q, want connected", body["status"])
	}
}

func TestHealthEndpoint_Disconnected(t *testing.T) {
	engine := &stubEngine{healthErr: errors.New("connection refused")}
	srv, _ := testServer(t, engine, &stubMeta{data: map[string]models.IntentMetadata{}})

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body["status"] != "disconnected" || body["error"] == "" {
		t.Errorf("body = %+v", body)
	}
}
