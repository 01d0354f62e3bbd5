package mcp

import (
	"context"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

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

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result   domain.TurnResult
	messages []domain.Message
	err      error

	lastSession string
}

func (m *mockChatService) HandleTurn(_ context.Context, _, sessionID string) domain.TurnResult {
	m.lastSession = sessionID
	return m.result
}

func (m *mockChatService) SessionStats(_ context.Context, _ string) (*domain.SessionStats, error) {
	return nil, m.err
}

func (m *mockChatService) AllSessionsStats(_ context.Context) domain.AllSessionsStats {
	return domain.AllSessionsStats{}
}

func (m *mockChatService) History(_ context.Context, sessionID string, _ int) ([]domain.Message, error) {
	m.lastSession = sessionID
	return m.messages, m.err
}

func (m *mockChatService) SearchConversations(_ context.Context, _, _ string) []domain.ConversationHit {
	return nil
}

func (m *mockChatService) Export(_ context.Context, _ string) (*domain.Session, error) {
	return nil, m.err
}

func (m *mockChatService) Summary(_ context.Context, _ string) (string, error) {
	return "", m.err
}

func (m *mockChatService) CleanupExpired(_ context.Context) int {
	return 0
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	stats domain.StoreStats
	err   error
}

func (m *mockIndexService) IndexAll(_ context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{}, m.err
}

func (m *mockIndexService) IndexFile(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockIndexService) RemoveFile(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockIndexService) Refresh(_ context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{}, m.err
}

func (m *mockIndexService) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) Health(_ context.Context) domain.HealthStatus {
	return domain.HealthStatus{}
}
