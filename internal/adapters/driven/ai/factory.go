// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/rishinpoolat/portfolio/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/rishinpoolat/portfolio/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/rishinpoolat/portfolio/internal/adapters/driven/llm/ollama"
	openaillm "github.com/rishinpoolat/portfolio/internal/adapters/driven/llm/openai"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues found while connecting.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates both AI services from settings.
//
// The embedding service is mandatory: indexing and retrieval cannot run
// without it. A missing LLM is reported as ErrConfiguration only when
// requireLLM is set. Unreachable providers are kept and recorded as
// warnings, since either may come up after startup.
func Init(ctx context.Context, settings *domain.AppSettings, requireLLM bool) (*InitResult, error) {
	result := &InitResult{}

	embed, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if embed == nil {
		return nil, fmt.Errorf("%w: embedding provider %q with model %q is not configured",
			domain.ErrConfiguration, settings.Embedding.Provider, settings.Embedding.Model)
	}
	result.EmbeddingService = embed
	if err := ping(ctx, embed.Ping); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedding service unreachable: %v", err))
	}

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if llm == nil {
		if requireLLM {
			result.Close()
			return nil, fmt.Errorf("%w: LLM is not configured (set GROQ_API_KEY)", domain.ErrConfiguration)
		}
		result.Warnings = append(result.Warnings, "LLM is not configured; chat is unavailable")
		return result, nil
	}
	result.LLMService = llm
	if err := ping(ctx, llm.Ping); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("LLM service unreachable: %v", err))
	}

	return result, nil
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(context.Background(), settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(context.Background(), settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerMinute: settings.RequestsPerMinute,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerMinute: settings.RequestsPerMinute,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
