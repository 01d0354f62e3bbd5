package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// Texts found in vectors get that vector; everything else gets fallback.
type mockEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	pingErr  error
	calls    int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors:  map[string][]float32{},
		fallback: []float32{1, 0},
	}
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return m.fallback
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectorFor(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return len(m.fallback) }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.pingErr }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService for testing.
// Replies are returned in order; the last one repeats.
type mockLLM struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	requests [][]driven.ChatMessage
	options  []driven.ChatOptions
	pingErr  error
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.requests)
	m.requests = append(m.requests, messages)
	m.options = append(m.options, opts)
	if n < len(m.errs) && m.errs[n] != nil {
		return "", m.errs[n]
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	if n >= len(m.replies) {
		n = len(m.replies) - 1
	}
	return m.replies[n], nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return m.pingErr }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("unknown prompt")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockSource implements driven.DocumentSource for testing.
type mockSource struct {
	root    string
	files   []domain.SourceFile
	content map[string]string
	listErr error
}

func (m *mockSource) List(_ context.Context) ([]domain.SourceFile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.files, nil
}

func (m *mockSource) Read(_ context.Context, path string) (*domain.RawDocument, error) {
	c, ok := m.content[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return &domain.RawDocument{Path: path, Content: []byte(c), Size: int64(len(c))}, nil
}

func (m *mockSource) Root() string { return m.root }

// mockVectorStore implements driven.VectorStore for testing failure paths.
// Successful calls are delegated to the wrapped store when set.
type mockVectorStore struct {
	driven.VectorStore
	queryErr  error
	upsertErr error
	countErr  error
	queries   []domain.Collection
	filters   []domain.MetadataFilter
	ks        []int
	mu        sync.Mutex
}

func (m *mockVectorStore) Query(
	ctx context.Context, c domain.Collection, v []float32, k int, f domain.MetadataFilter,
) ([]domain.SearchResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, c)
	m.filters = append(m.filters, f)
	m.ks = append(m.ks, k)
	m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.VectorStore == nil {
		return nil, nil
	}
	return m.VectorStore.Query(ctx, c, v, k, f)
}

func (m *mockVectorStore) Upsert(ctx context.Context, c domain.Collection, chunks []domain.Chunk) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	return m.VectorStore.Upsert(ctx, c, chunks)
}

func (m *mockVectorStore) Count(ctx context.Context, c domain.Collection) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if m.VectorStore == nil {
		return 0, nil
	}
	return m.VectorStore.Count(ctx, c)
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values  map[string]any
	saveErr error
	saved   int
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: map[string]any{}}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetDuration(key string) time.Duration {
	switch v := m.values[key].(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Second
	case string:
		d, _ := time.ParseDuration(v)
		return d
	default:
		return 0
	}
}

func (m *mockConfigStore) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return m.saveErr
}

func (m *mockConfigStore) Save() error {
	m.saved++
	return m.saveErr
}

func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "/mock/config.toml" }

// mockValidator implements driven.AIConfigValidator for testing.
type mockValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error { return m.embeddingErr }
func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error             { return m.llmErr }
