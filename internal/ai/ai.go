// Package ai owns the Genkit handle and the model-facing client used by the
// rest of the application.
//
// Two provider surfaces are exposed:
//   - Completer: plain-text completions with per-call token and temperature
//     settings, used by intent classification and response synthesis.
//   - genkit ai.Embedder: vector embeddings, consumed by the knowledge store.
//
// Both are injected into their consumers at construction time so tests can
// substitute fakes; nothing in this package is a global.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	genkitai "github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Sentinel errors for completion calls. Provider failures and malformed
// output are distinguishable with errors.Is().
var (
	// ErrProvider indicates the completion provider call itself failed.
	ErrProvider = errors.New("completion provider failure")

	// ErrEmptyCompletion indicates the provider returned no usable text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Completer produces a text completion for a prompt.
// Implementations must return an error wrapping ErrProvider on transport or
// provider failures and ErrEmptyCompletion on blank output.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// Init initializes Genkit with the Google AI plugin.
// The GEMINI_API_KEY environment variable is read by the plugin directly.
func Init(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with googleai provider")
	}
	return g, nil
}

// NewEmbedder looks up the embedder registered by the Google AI plugin.
func NewEmbedder(g *genkit.Genkit, model string) genkitai.Embedder {
	return googlegenai.GoogleAIEmbedder(g, model)
}

// Client is the production Completer backed by Genkit.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	g       *genkit.Genkit
	model   string
	retry   RetryConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(rc RetryConfig) Option {
	return func(c *Client) { c.retry = rc }
}

// WithRateLimiter sets a proactive limiter applied before every attempt.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a Completer backed by the given Genkit instance.
// model is the bare model name (e.g. "gemini-2.5-flash"); the googleai
// provider prefix is added internally. logger may be nil.
func NewClient(g *genkit.Genkit, model string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if g == nil {
		return nil, errors.New("genkit instance is required")
	}
	if model == "" {
		return nil, errors.New("model name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		g:      g,
		model:  model,
		retry:  DefaultRetryConfig(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete generates a completion for prompt. Transient provider failures
// are retried per the client's RetryConfig before surfacing as ErrProvider.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	resp, err := c.generateWithRetry(ctx, prompt, maxTokens, temperature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug("completion generated",
		"model", c.model,
		"prompt_len", len(prompt),
		"response_len", len(text),
	)
	return text, nil
}

// generate performs a single Genkit generation attempt.
func (c *Client) generate(ctx context.Context, prompt string, maxTokens int, temperature float32) (*genkitai.ModelResponse, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(maxTokens),
	}
	return genkit.Generate(ctx, c.g,
		genkitai.WithModelName("googleai/"+c.model),
		genkitai.WithPrompt(prompt),
		genkitai.WithConfig(cfg),
	)
}
