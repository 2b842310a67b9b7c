// Package textgen wraps the external text-generation service behind a
// small Completer interface: one system instruction, one content
// payload, one generated text back. Provider errors are classified into
// apierr sentinels at this boundary; the core never retries.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-studyflow/internal/apierr"
)

// Default generation parameters.
const (
	defaultModel       = "gpt-4.1-mini"
	defaultMaxTokens   = 2000
	defaultTemperature = 0.7

	// defaultCallTimeout bounds every generation call. A timeout is a
	// per-call failure like any other; it never stalls a whole job.
	defaultCallTimeout = 60 * time.Second
)

// Completer issues one text-generation call.
type Completer interface {
	// Complete generates text for the given system instruction and
	// user content. The per-call content size ceiling is the caller's
	// responsibility; this only transports the request.
	Complete(ctx context.Context, system, content string) (string, error)
}

// chatCompleter is an internal interface for chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ Completer = (*OpenAICompleter)(nil)

// OpenAICompleter generates text using an OpenAI-compatible chat
// completion API.
type OpenAICompleter struct {
	client      chatCompleter
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// Option configures an OpenAICompleter.
type Option func(*OpenAICompleter)

// WithModel sets the generation model.
func WithModel(model string) Option {
	return func(c *OpenAICompleter) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens sets the per-call output token limit.
func WithMaxTokens(n int) Option {
	return func(c *OpenAICompleter) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithCallTimeout sets the per-call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(c *OpenAICompleter) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// withChatCompleter sets a custom chat completer (for testing).
func withChatCompleter(cc chatCompleter) Option {
	return func(c *OpenAICompleter) {
		c.client = cc
	}
}

// NewOpenAICompleter creates an OpenAICompleter around the given client.
// The client is injected to enable testing with mocks.
func NewOpenAICompleter(client *openai.Client, opts ...Option) *OpenAICompleter {
	c := &OpenAICompleter{
		client:      client,
		model:       defaultModel,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		timeout:     defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete issues a single chat completion call with the fixed per-call
// timeout. Errors are classified into apierr sentinels.
func (c *OpenAICompleter) Complete(ctx context.Context, system, content string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from generation API")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError maps provider errors to apierr sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Quota exhaustion is a billing condition, not a transient
			// rate limit; keep the two distinguishable for callers.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("generation request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
