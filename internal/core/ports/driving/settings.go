package driving

import "github.com/rishinpoolat/portfolio/internal/core/domain"

// SettingsService resolves application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.AppSettings, error)

	// Save persists settings to the config file.
	Save(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks the settings required to answer questions.
	// Returns domain.ErrConfiguration when the LLM is not configured.
	Validate() error

	// ValidateEmbeddingConfig validates the embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
