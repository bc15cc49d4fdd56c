// ABOUTME: HTTP client for the external NLU agent REST surface
// ABOUTME: Detect intent, intent-store CRUD, and a connectivity probe
package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harper/intent-curator/internal/models"
)

// maxErrorBody bounds how much of an error response is kept in messages
const maxErrorBody = 512

// Client talks to the NLU agent over its REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the agent at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type detectRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type detectResponse struct {
	IntentName      string   `json:"intent_name"`
	Confidence      float64  `json:"confidence"`
	ReplyText       string   `json:"reply_text"`
	TrainingPhrases []string `json:"training_phrases,omitempty"`
}

// Detect resolves one utterance to an intent match and reply
func (c *Client) Detect(ctx context.Context, sessionID, text string) (*models.NluResult, error) {
	var resp detectResponse
	err := c.do(ctx, http.MethodPost, "/v1/detect", detectRequest{SessionID: sessionID, Text: text}, &resp)
	if err != nil {
		return nil, fmt.Errorf("detect intent: %w", err)
	}
	return &models.NluResult{
		IntentName:      resp.IntentName,
		Confidence:      resp.Confidence,
		ReplyText:       resp.ReplyText,
		TrainingPhrases: resp.TrainingPhrases,
	}, nil
}

// ListIntents returns the intent catalog, excluding protected built-ins
func (c *Client) ListIntents(ctx context.Context) ([]models.Intent, error) {
	var resp struct {
		Intents []models.Intent `json:"intents"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/intents", nil, &resp); err != nil {
		return nil, fmt.Errorf("list intents: %w", err)
	}

	out := resp.Intents[:0]
	for _, intent := range resp.Intents {
		if models.IsProtectedIntent(intent.DisplayName) {
			continue
		}
		out = append(out, intent)
	}
	return out, nil
}

// CreateIntent stores a new intent. Protected names are refused before
// any call is made.
func (c *Client) CreateIntent(ctx context.Context, intent models.Intent) error {
	if models.IsProtectedIntent(intent.DisplayName) {
		return fmt.Errorf("intent %q is protected", intent.DisplayName)
	}
	if err := c.do(ctx, http.MethodPost, "/v1/intents", intent, nil); err != nil {
		return fmt.Errorf("create intent %q: %w", intent.DisplayName, err)
	}
	return nil
}

// UpdateIntent replaces a stored intent, addressed by display name
func (c *Client) UpdateIntent(ctx context.Context, intent models.Intent) error {
	if models.IsProtectedIntent(intent.DisplayName) {
		return fmt.Errorf("intent %q is protected", intent.DisplayName)
	}
	path := "/v1/intents/" + url.PathEscape(intent.DisplayName)
	if err := c.do(ctx, http.MethodPut, path, intent, nil); err != nil {
		return fmt.Errorf("update intent %q: %w", intent.DisplayName, err)
	}
	return nil
}

// CheckConnection probes the agent's health endpoint
func (c *Client) CheckConnection(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/v1/health", nil, nil); err != nil {
		return fmt.Errorf("nlu agent unreachable: %w", err)
	}
	return nil
}

// do performs one JSON request/response round trip
func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
