package cli

import (
	"context"
	"errors"
	"time"

	"github.com/rishinpoolat/portfolio/internal/connectors/filesystem"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	query   string
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.query = query
	m.opts = opts
	return m.results, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	stats      domain.IndexStats
	storeStats domain.StoreStats
	err        error
	fileErr    error

	indexAllCalls int
	refreshCalls  int
	indexed       []string
	removed       []string
}

func (m *mockIndexService) IndexAll(context.Context) (domain.IndexStats, error) {
	m.indexAllCalls++
	return m.stats, m.err
}

func (m *mockIndexService) IndexFile(_ context.Context, path string) (int, error) {
	if m.fileErr != nil {
		return 0, m.fileErr
	}
	m.indexed = append(m.indexed, path)
	return 2, nil
}

func (m *mockIndexService) RemoveFile(_ context.Context, path string) (int, error) {
	if m.fileErr != nil {
		return 0, m.fileErr
	}
	m.removed = append(m.removed, path)
	return 3, nil
}

func (m *mockIndexService) Refresh(context.Context) (domain.IndexStats, error) {
	m.refreshCalls++
	return m.stats, m.err
}

func (m *mockIndexService) Stats(context.Context) (domain.StoreStats, error) {
	return m.storeStats, m.err
}

func (m *mockIndexService) Health(context.Context) domain.HealthStatus {
	return domain.HealthStatus{}
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	replies  []domain.TurnResult
	messages []string
	sessions []string
}

func (m *mockChatService) HandleTurn(_ context.Context, message, sessionID string) domain.TurnResult {
	m.messages = append(m.messages, message)
	m.sessions = append(m.sessions, sessionID)
	if len(m.replies) == 0 {
		return domain.TurnResult{Response: "ok", SessionID: "s1"}
	}
	r := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return r
}

func (m *mockChatService) SessionStats(context.Context, string) (*domain.SessionStats, error) {
	return nil, domain.ErrNotFound
}

func (m *mockChatService) AllSessionsStats(context.Context) domain.AllSessionsStats {
	return domain.AllSessionsStats{}
}

func (m *mockChatService) History(context.Context, string, int) ([]domain.Message, error) {
	return nil, domain.ErrNotFound
}

func (m *mockChatService) SearchConversations(context.Context, string, string) []domain.ConversationHit {
	return nil
}

func (m *mockChatService) Export(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrNotFound
}

func (m *mockChatService) Summary(context.Context, string) (string, error) {
	return "", domain.ErrNotFound
}

func (m *mockChatService) CleanupExpired(context.Context) int {
	return 0
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	saveErr     error
	saved       *domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = settings
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return nil
}

// mockWatcher delivers prepared batches, then closes.
type mockWatcher struct {
	batches [][]filesystem.Change
	err     error
}

func (m *mockWatcher) Watch(context.Context, time.Duration) (<-chan []filesystem.Change, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(chan []filesystem.Change, len(m.batches))
	for _, b := range m.batches {
		out <- b
	}
	close(out)
	return out, nil
}

var errMock = errors.New("mock failure")
