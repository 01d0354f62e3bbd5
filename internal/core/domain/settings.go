package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any OpenAI-compatible API, Groq included.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	default:
		return unknownDescription
	}
}

// VectorBackend selects the vector store implementation.
type VectorBackend string

// Available vector backends.
const (
	VectorBackendMemory   VectorBackend = "memory"
	VectorBackendSQLite   VectorBackend = "sqlite"
	VectorBackendPostgres VectorBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendMemory, VectorBackendSQLite, VectorBackendPostgres:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// PortfolioSettings locates the portfolio content.
type PortfolioSettings struct {
	// DataPath is the root of the category tree.
	DataPath string

	// OwnerName is the person the portfolio describes.
	OwnerName string
}

// ChunkingSettings holds chunker limits in characters.
type ChunkingSettings struct {
	Size    int
	Overlap int
}

// RetrievalSettings holds retrieval limits.
type RetrievalSettings struct {
	// K is the maximum number of context chunks per query.
	K int
}

// SessionSettings holds session lifetime configuration.
type SessionSettings struct {
	// Timeout is the idle time after which a session expires.
	Timeout time.Duration
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (OpenAI-compatible only).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Model == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (OpenAI-compatible only).
	APIKey string

	// RequestsPerMinute throttles outgoing requests. Zero disables it.
	RequestsPerMinute int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Model == "" {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorStoreSettings selects and locates the vector store.
type VectorStoreSettings struct {
	// Backend is the store implementation.
	Backend VectorBackend

	// Path is the sqlite database directory.
	Path string

	// DSN is the postgres connection string.
	DSN string
}

// ServerSettings holds the HTTP listen address.
type ServerSettings struct {
	Host string
	Port int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Portfolio   PortfolioSettings
	Chunking    ChunkingSettings
	Retrieval   RetrievalSettings
	Session     SessionSettings
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorStore VectorStoreSettings
	Server      ServerSettings

	// LogLevel is debug, info, warn or error.
	LogLevel string
}

// Default setting values.
const (
	DefaultOwnerName      = "Mohammed Rishin"
	DefaultDataPath       = "./portfolio_data"
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 200
	DefaultRetrievalK     = 5
	DefaultSessionTimeout = time.Hour
	DefaultGroqBaseURL    = "https://api.groq.com/openai/v1"
	DefaultLLMModel       = "llama3-8b-8192"
	DefaultOllamaBaseURL  = "http://localhost:11434"
	DefaultEmbeddingModel = "all-minilm"
	DefaultVectorPath     = "./vector_db"
	DefaultServerHost     = "0.0.0.0"
	DefaultServerPort     = 8000
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM API key is left empty and must come from the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Portfolio: PortfolioSettings{
			DataPath:  DefaultDataPath,
			OwnerName: DefaultOwnerName,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{K: DefaultRetrievalK},
		Session:   SessionSettings{Timeout: DefaultSessionTimeout},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModel,
			BaseURL:  DefaultOllamaBaseURL,
		},
		LLM: LLMSettings{
			Provider:          AIProviderOpenAI,
			Model:             DefaultLLMModel,
			BaseURL:           DefaultGroqBaseURL,
			RequestsPerMinute: 30,
		},
		VectorStore: VectorStoreSettings{
			Backend: VectorBackendSQLite,
			Path:    DefaultVectorPath,
		},
		Server: ServerSettings{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
		LogLevel: "info",
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: DefaultLLMModel,
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
