package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driving"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataPath       = "portfolio.data_path"
	keyOwnerName      = "portfolio.owner_name"
	keyChunkSize      = "chunking.size"
	keyChunkOverlap   = "chunking.overlap"
	keyRetrievalK     = "retrieval.k"
	keySessionTimeout = "session.timeout"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMRPM         = "llm.requests_per_minute"
	keyVectorBackend  = "vector_store.backend"
	keyVectorPath     = "vector_store.path"
	keyVectorDSN      = "vector_store.dsn"
	keyServerHost     = "server.host"
	keyServerPort     = "server.port"
	keyLogLevel       = "log.level"
)

// Environment overrides. Unprefixed names are shared with existing .env files.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	envGroqAPIKey     = "GROQ_API_KEY"
	envDataPath       = "PORTFOLIO_DATA_PATH"
	envVectorPath     = "VECTOR_DB_PATH"
	envServerHost     = "API_HOST"
	envServerPort     = "API_PORT"
	envLogLevel       = "LOG_LEVEL"
	envChunkSize      = "CHUNK_SIZE"
	envChunkOverlap   = "CHUNK_OVERLAP"
	envRetrievalK     = "RETRIEVAL_K"
	envLLMModel       = "GROQ_MODEL"
	envEmbedModel     = "EMBEDDING_MODEL"
	envOwnerName      = "PORTFOLIO_OWNER_NAME"
	envSessionTimeout = "PORTFOLIO_SESSION_TIMEOUT"
	envVectorBackend  = "PORTFOLIO_VECTOR_BACKEND"
	envVectorDSN      = "PORTFOLIO_POSTGRES_DSN"
	envEmbedProvider  = "PORTFOLIO_EMBEDDING_PROVIDER"
	envEmbedBaseURL   = "PORTFOLIO_EMBEDDING_BASE_URL"
	envEmbedAPIKey    = "PORTFOLIO_EMBEDDING_API_KEY"
	envLLMProvider    = "PORTFOLIO_LLM_PROVIDER"
	envLLMBaseURL     = "PORTFOLIO_LLM_BASE_URL"
	envLLMRPM         = "PORTFOLIO_LLM_REQUESTS_PER_MINUTE"
	envEmbedAPIKeyAlt = "OPENAI_API_KEY"
)

// maskedSecretSuffix is how many trailing characters of a secret stay visible.
const maskedSecretSuffix = 4

// SettingsService resolves application settings from defaults, the config
// file and the environment, in that order of precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Portfolio: domain.PortfolioSettings{
			DataPath:  s.getString(keyDataPath, defaults.Portfolio.DataPath),
			OwnerName: s.getString(keyOwnerName, defaults.Portfolio.OwnerName),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			K: s.getInt(keyRetrievalK, defaults.Retrieval.K),
		},
		Session: domain.SessionSettings{
			Timeout: s.getDuration(keySessionTimeout, defaults.Session.Timeout),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.getString(keyEmbedBaseURL, defaults.Embedding.BaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:             s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:           s.getString(keyLLMBaseURL, defaults.LLM.BaseURL),
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			RequestsPerMinute: s.getInt(keyLLMRPM, defaults.LLM.RequestsPerMinute),
		},
		VectorStore: domain.VectorStoreSettings{
			Backend: s.getBackend(defaults.VectorStore.Backend),
			Path:    s.getString(keyVectorPath, defaults.VectorStore.Path),
			DSN:     s.configStore.GetString(keyVectorDSN),
		},
		Server: domain.ServerSettings{
			Host: s.getString(keyServerHost, defaults.Server.Host),
			Port: s.getInt(keyServerPort, defaults.Server.Port),
		},
		LogLevel: s.getString(keyLogLevel, defaults.LogLevel),
	}

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv overlays environment variables. Unparseable values are
// ignored with a warning.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	s.envString(envDataPath, &settings.Portfolio.DataPath)
	s.envString(envOwnerName, &settings.Portfolio.OwnerName)
	s.envInt(envChunkSize, &settings.Chunking.Size)
	s.envInt(envChunkOverlap, &settings.Chunking.Overlap)
	s.envInt(envRetrievalK, &settings.Retrieval.K)

	if v, ok := s.env(envSessionTimeout); ok {
		if d, err := parseTimeout(v); err == nil {
			settings.Session.Timeout = d
		} else {
			logger.Warn("Ignoring %s=%q: %v", envSessionTimeout, v, err)
		}
	}

	if v, ok := s.env(envEmbedProvider); ok {
		if p := domain.AIProvider(strings.ToLower(v)); p.IsValid() {
			settings.Embedding.Provider = p
		} else {
			logger.Warn("Ignoring %s=%q: unknown provider", envEmbedProvider, v)
		}
	}
	s.envString(envEmbedModel, &settings.Embedding.Model)
	s.envString(envEmbedBaseURL, &settings.Embedding.BaseURL)
	s.envString(envEmbedAPIKeyAlt, &settings.Embedding.APIKey)
	s.envString(envEmbedAPIKey, &settings.Embedding.APIKey)

	if v, ok := s.env(envLLMProvider); ok {
		if p := domain.AIProvider(strings.ToLower(v)); p.IsValid() {
			settings.LLM.Provider = p
		} else {
			logger.Warn("Ignoring %s=%q: unknown provider", envLLMProvider, v)
		}
	}
	s.envString(envLLMModel, &settings.LLM.Model)
	s.envString(envLLMBaseURL, &settings.LLM.BaseURL)
	s.envString(envGroqAPIKey, &settings.LLM.APIKey)
	s.envInt(envLLMRPM, &settings.LLM.RequestsPerMinute)

	if v, ok := s.env(envVectorBackend); ok {
		if b := domain.VectorBackend(strings.ToLower(v)); b.IsValid() {
			settings.VectorStore.Backend = b
		} else {
			logger.Warn("Ignoring %s=%q: unknown backend", envVectorBackend, v)
		}
	}
	s.envString(envVectorPath, &settings.VectorStore.Path)
	s.envString(envVectorDSN, &settings.VectorStore.DSN)

	s.envString(envServerHost, &settings.Server.Host)
	s.envInt(envServerPort, &settings.Server.Port)
	s.envString(envLogLevel, &settings.LogLevel)
	settings.LogLevel = strings.ToLower(settings.LogLevel)
}

// Save persists application settings.
// API keys are only written when set.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	type setting struct {
		key   string
		value any
	}
	values := []setting{
		{keyDataPath, settings.Portfolio.DataPath},
		{keyOwnerName, settings.Portfolio.OwnerName},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyRetrievalK, settings.Retrieval.K},
		{keySessionTimeout, settings.Session.Timeout.String()},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMRPM, settings.LLM.RequestsPerMinute},
		{keyVectorBackend, settings.VectorStore.Backend.String()},
		{keyVectorPath, settings.VectorStore.Path},
		{keyServerHost, settings.Server.Host},
		{keyServerPort, settings.Server.Port},
		{keyLogLevel, settings.LogLevel},
	}
	if settings.Embedding.APIKey != "" {
		values = append(values, setting{keyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" {
		values = append(values, setting{keyLLMAPIKey, settings.LLM.APIKey})
	}
	if settings.VectorStore.DSN != "" {
		values = append(values, setting{keyVectorDSN, settings.VectorStore.DSN})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks the settings required to answer questions.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(settings)
}

// ValidateSettings checks settings without consulting any provider.
func ValidateSettings(settings *domain.AppSettings) error {
	if !settings.LLM.IsConfigured() {
		if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
			return fmt.Errorf("%w: %s environment variable is required", domain.ErrConfiguration, envGroqAPIKey)
		}
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrConfiguration, settings.LLM.Provider)
	}
	if settings.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrConfiguration)
	}
	if settings.Chunking.Overlap < 0 || settings.Chunking.Overlap >= settings.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap must be in [0, %d)", domain.ErrConfiguration, settings.Chunking.Size)
	}
	if settings.VectorStore.Backend == domain.VectorBackendPostgres && settings.VectorStore.DSN == "" {
		return fmt.Errorf("%w: postgres backend requires %s", domain.ErrConfiguration, envVectorDSN)
	}
	return nil
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// MaskSecret hides all but the last few characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= maskedSecretSuffix {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-maskedSecretSuffix) + secret[len(secret)-maskedSecretSuffix:]
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	val := s.configStore.GetString(keyVectorBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.VectorBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// env returns a non-blank environment value.
func (s *SettingsService) env(name string) (string, bool) {
	v, ok := s.lookupEnv(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (s *SettingsService) envString(name string, dst *string) {
	if v, ok := s.env(name); ok {
		*dst = v
	}
}

func (s *SettingsService) envInt(name string, dst *int) {
	v, ok := s.env(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("Ignoring %s=%q: not an integer", name, v)
		return
	}
	*dst = n
}

// parseTimeout accepts a duration ("90m") or whole seconds ("3600").
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout must be positive")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	return d, nil
}
