// Package ai provides the reasoning backend for discovery: a thin client
// over the Anthropic API with retry, circuit breaking, and resilient JSON
// extraction from model output.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
)

const (
	// ModelDefault is the model used for scope inference, expansion, and
	// curation reasoning.
	ModelDefault = "claude-sonnet-4-5-20250929"

	// ModelLight is the cost-efficient model for small classification calls.
	ModelLight = "claude-3-5-haiku-20241022"
)

// DefaultModel returns the reasoning model, honoring WIKIPLAN_MODEL.
func DefaultModel() string {
	if model := os.Getenv("WIKIPLAN_MODEL"); model != "" {
		return model
	}
	return ModelDefault
}

// Generator is the reasoning source used by discovery collaborators. It
// takes a prompt and returns the raw model text; callers parse what they
// need out of it and default the rest.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is the Anthropic-backed Generator. A single client is shared by
// all collaborators in a session; its semaphore bounds concurrent API calls
// even though the discovery loop itself is sequential.
type Client struct {
	client         *anthropic.Client
	model          string
	maxTokens      int64
	retry          RetryConfig
	circuitBreaker *CircuitBreaker
	sem            *semaphore.Weighted
}

// Config holds client configuration.
type Config struct {
	APIKey    string // if empty, read from ANTHROPIC_API_KEY
	Model     string // default: DefaultModel()
	MaxTokens int64  // default: 4096
	Retry     RetryConfig
}

// NewClient creates the reasoning client.
func NewClient(cfg Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel()
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	var cb *CircuitBreaker
	if retry.CircuitBreakerEnabled {
		cb = NewCircuitBreaker(retry.FailureThreshold, retry.SuccessThreshold, retry.OpenTimeout)
	}

	var sem *semaphore.Weighted
	if retry.MaxConcurrentCalls > 0 {
		sem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}

	return &Client{
		client:         &client,
		model:          model,
		maxTokens:      maxTokens,
		retry:          retry,
		circuitBreaker: cb,
		sem:            sem,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends a single-turn prompt and returns the concatenated text
// blocks of the response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	var response *anthropic.Message
	err := c.retryWithBackoff(ctx, "generate", func(attemptCtx context.Context) error {
		resp, apiErr := c.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.model),
			MaxTokens: c.maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	slog.Debug("AI generate call",
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens,
		"duration", time.Since(start))

	return text, nil
}

// HealthCheck reports whether the circuit breaker currently blocks calls.
func (c *Client) HealthCheck() error {
	if c.circuitBreaker == nil {
		return nil
	}
	state, failures, _ := c.circuitBreaker.Metrics()
	if state == CircuitOpen {
		return fmt.Errorf("reasoning source unavailable: %w (failures=%d, retry in %v)",
			ErrCircuitOpen, failures, c.retry.OpenTimeout)
	}
	return nil
}
