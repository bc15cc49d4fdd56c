// ABOUTME: Tests for the NLU agent HTTP client
// ABOUTME: Uses httptest servers to verify paths, payloads, and errors

package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/harper/intent-curator/internal/models"
)

func TestDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/detect" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req struct {
			SessionID string `json:"session_id"`
			Text      string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.SessionID != "s1" || req.Text != "What is photosynthesis?" {
			t.Errorf("request = %+v", req)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"intent_name": "science_photosynthesis_definition",
			"confidence":  0.91,
			"reply_text":  "Photosynthesis converts light into energy.",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	result, err := c.Detect(context.Background(), "s1", "What is photosynthesis?")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if result.IntentName != "science_photosynthesis_definition" {
		t.Errorf("IntentName = %q", result.IntentName)
	}
	if result.Confidence != 0.91 {
		t.Errorf("Confidence = %v", result.Confidence)
	}
}

func TestListIntents_FiltersProtected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"intents": []models.Intent{
				{DisplayName: "Default Welcome Intent"},
				{DisplayName: "faq_hours", TrainingPhrases: []string{"when are you open"}},
				{DisplayName: "Default Fallback Intent"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	intents, err := c.ListIntents(context.Background())
	if err != nil {
		t.Fatalf("ListIntents() error = %v", err)
	}

	if len(intents) != 1 || intents[0].DisplayName != "faq_hours" {
		t.Errorf("intents = %+v, want only faq_hours", intents)
	}
}

func TestCreateIntent_RefusesProtected(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.CreateIntent(context.Background(), models.Intent{DisplayName: models.DefaultWelcomeIntent})
	if err == nil {
		t.Fatal("expected error for protected intent")
	}
	if called {
		t.Error("protected intent must be refused before any HTTP call")
	}
}

func TestUpdateIntent_PathEscapesDisplayName(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.UpdateIntent(context.Background(), models.Intent{DisplayName: "faq opening hours"})
	if err != nil {
		t.Fatalf("UpdateIntent() error = %v", err)
	}
	if gotPath != "/v1/intents/faq%20opening%20hours" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestDo_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("agent exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Detect(context.Background(), "s1", "hello there friend")
	if err == nil {
		t.Fatal("expected error for 502")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "agent exploded") {
		t.Errorf("error should carry status and body snippet: %v", err)
	}
}

func TestCheckConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"connected"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if err := c.CheckConnection(context.Background()); err != nil {
		t.Errorf("CheckConnection() error = %v", err)
	}

	srv.Close()
	if err := c.CheckConnection(context.Background()); err == nil {
		t.Error("expected error once the server is down")
	}
}
