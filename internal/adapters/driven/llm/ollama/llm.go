// Package ollama provides an LLM service adapter using Ollama.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"golang.org/x/time/rate"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = domain.DefaultOllamaBaseURL
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerMinute throttles calls. Zero disables throttling.
	RequestsPerMinute int
}

// LLMService provides chat completions using the Ollama API client.
type LLMService struct {
	client  *api.Client
	model   string
	limiter *rate.Limiter
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama base URL: %v", domain.ErrConfiguration, err)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &LLMService{
		client:  api.NewClient(base, &http.Client{Timeout: cfg.Timeout}),
		model:   cfg.Model,
		limiter: limiter,
	}, nil
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ollama: rate limit wait: %w", err)
	}

	chatMessages := make([]api.Message, len(messages))
	for i, msg := range messages {
		chatMessages[i] = api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	stream := false
	req := &api.ChatRequest{
		Model:    s.model,
		Messages: chatMessages,
		Stream:   &stream,
		Options:  chatOptions(opts),
	}

	var reply strings.Builder
	err := s.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: chat: %w", err)
	}

	return reply.String(), nil
}

// chatOptions maps sampling parameters onto Ollama option names.
func chatOptions(opts driven.ChatOptions) map[string]any {
	out := make(map[string]any)
	if opts.MaxTokens > 0 {
		out["num_predict"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		out["temperature"] = opts.Temperature
	}
	if opts.TopP > 0 {
		out["top_p"] = opts.TopP
	}
	return out
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the server is reachable without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
