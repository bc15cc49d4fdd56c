// ABOUTME: OpenAI client for LLM arbitration calls
// ABOUTME: Retries with exponential backoff, returns the raw completion text
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/intent-curator/internal/config"
	"github.com/harper/intent-curator/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultChatModel is the default model for arbitration calls
const DefaultChatModel = "gpt-4o-mini"

// arbitrationTemperature keeps the arbiter's JSON output stable
const arbitrationTemperature = 0.2

// Client wraps the OpenAI API with retry logic for arbitration calls
type Client struct {
	client     *openai.Client
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates an arbiter client from configuration
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.ChatModel
	if model == "" {
		model = DefaultChatModel
	}

	return &Client{
		client:     openai.NewClient(cfg.OpenAIKey),
		chatModel:  model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Arbitrate sends one system+user prompt pair and returns the raw
// completion text. Transport errors and empty completions are retried;
// the caller owns response validation.
func (c *Client) Arbitrate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(util.Backoff(c.retryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			Temperature: arbitrationTemperature,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		cancel()
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("arbitration failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
