package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{{
				ID:    "projects_chat_0",
				Text:  "This is the content",
				Score: -0.1,
				Metadata: domain.ChunkMetadata{
					Title:        "Chat",
					Category:     "projects",
					FilePath:     "/data/projects/chat.md",
					Technologies: []string{"node.js"},
				},
			}},
		}

		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		input := SearchInput{Query: "test", Category: "Projects", Limit: 3, Technologies: []string{"node.js"}}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "projects_chat_0", output.Results[0].ChunkID)
		assert.Equal(t, "Chat", output.Results[0].Title)
		assert.Equal(t, "/data/projects/chat.md", output.Results[0].FilePath)
		assert.Equal(t, 0.0, output.Results[0].Score)
		assert.Equal(t, "This is the content", output.Results[0].Content)

		assert.Equal(t, domain.CategoryProjects, mockSearch.opts.Category)
		assert.Equal(t, 3, mockSearch.opts.Limit)
		assert.Equal(t, []string{"node.js"}, mockSearch.opts.Technologies)
	})

	t.Run("default limit is 10", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 10, mockSearch.opts.Limit)
	})

	t.Run("unknown category", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test", Category: "blog"})
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("answers with sources", func(t *testing.T) {
		chat := &mockChatService{result: domain.TurnResult{
			Response:           "Ada built a chat app.",
			SessionID:          "s1",
			SuggestedQuestions: []string{"What else?"},
			Sources:            []domain.Source{{Filename: "chat.md", Category: "projects", RelevanceScore: 1.4}},
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Chat: chat})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Message: "What did Ada build?", SessionID: "s0"})

		require.NoError(t, err)
		assert.Equal(t, "s0", chat.lastSession)
		assert.Equal(t, "Ada built a chat app.", output.Response)
		assert.Equal(t, "s1", output.SessionID)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, 1.0, output.Sources[0].Score)
	})

	t.Run("degraded turn is not an error", func(t *testing.T) {
		chat := &mockChatService{result: domain.TurnResult{
			Response: domain.ApologyMessage,
			Err:      domain.ErrGeneration,
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Chat: chat})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Message: "hi"})
		require.NoError(t, err)
		assert.Equal(t, domain.ApologyMessage, output.Response)
	})

	t.Run("empty message", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Chat: &mockChatService{}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no chat service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Message: "hi"})
		assert.ErrorIs(t, err, ErrChatUnavailable)
	})
}

func TestServer_handleStats(t *testing.T) {
	ctx := context.Background()

	t.Run("reports collections", func(t *testing.T) {
		index := &mockIndexService{stats: domain.StoreStats{
			Collections:    map[domain.Collection]int{domain.UnifiedCollection: 4},
			TotalDocuments: 4,
			Categories:     []domain.Category{domain.CategoryProjects, domain.CategoryHackathon},
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Index: index})
		require.NoError(t, err)

		_, output, err := server.handleStats(ctx, nil, StatsInput{})
		require.NoError(t, err)
		assert.Equal(t, 4, output.TotalDocuments)
		assert.Equal(t, 4, output.Collections[domain.UnifiedCollection.String()])
		assert.Equal(t, []string{"projects", "hackathon"}, output.Categories)
	})

	t.Run("no index service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, output, err := server.handleStats(ctx, nil, StatsInput{})
		require.NoError(t, err)
		assert.Empty(t, output.Collections)
	})

	t.Run("store failure", func(t *testing.T) {
		index := &mockIndexService{err: errors.New("closed")}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Index: index})
		require.NoError(t, err)

		_, _, err = server.handleStats(ctx, nil, StatsInput{})
		assert.Error(t, err)
	})
}
