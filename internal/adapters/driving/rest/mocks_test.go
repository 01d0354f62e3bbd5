package rest

import (
	"context"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result   domain.TurnResult
	stats    *domain.SessionStats
	all      domain.AllSessionsStats
	messages []domain.Message
	hits     []domain.ConversationHit
	session  *domain.Session
	summary  string
	removed  int
	err      error

	lastMessage string
	lastSession string
	lastLimit   int
	lastQuery   string
}

func (m *mockChatService) HandleTurn(_ context.Context, message, sessionID string) domain.TurnResult {
	m.lastMessage = message
	m.lastSession = sessionID
	return m.result
}

func (m *mockChatService) SessionStats(_ context.Context, sessionID string) (*domain.SessionStats, error) {
	m.lastSession = sessionID
	return m.stats, m.err
}

func (m *mockChatService) AllSessionsStats(_ context.Context) domain.AllSessionsStats {
	return m.all
}

func (m *mockChatService) History(_ context.Context, sessionID string, limit int) ([]domain.Message, error) {
	m.lastSession = sessionID
	m.lastLimit = limit
	return m.messages, m.err
}

func (m *mockChatService) SearchConversations(_ context.Context, query, sessionID string) []domain.ConversationHit {
	m.lastQuery = query
	m.lastSession = sessionID
	return m.hits
}

func (m *mockChatService) Export(_ context.Context, sessionID string) (*domain.Session, error) {
	m.lastSession = sessionID
	return m.session, m.err
}

func (m *mockChatService) Summary(_ context.Context, sessionID string) (string, error) {
	m.lastSession = sessionID
	return m.summary, m.err
}

func (m *mockChatService) CleanupExpired(_ context.Context) int {
	return m.removed
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.opts = opts
	return m.results, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	stats      domain.IndexStats
	storeStats domain.StoreStats
	health     domain.HealthStatus
	err        error
	refreshed  int
}

func (m *mockIndexService) IndexAll(_ context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) IndexFile(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockIndexService) RemoveFile(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockIndexService) Refresh(_ context.Context) (domain.IndexStats, error) {
	m.refreshed++
	return m.stats, m.err
}

func (m *mockIndexService) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.storeStats, m.err
}

func (m *mockIndexService) Health(_ context.Context) domain.HealthStatus {
	return m.health
}

// stubClassifier returns a fixed classification.
type stubClassifier struct {
	result domain.QueryClassification
}

func (s stubClassifier) Classify(string) domain.QueryClassification {
	return s.result
}
