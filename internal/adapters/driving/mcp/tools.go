package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

const defaultSearchLimit = 10

// SearchInput is the input schema for the search_portfolio tool.
type SearchInput struct {
	Query        string   `json:"query" jsonschema:"what to look for in the portfolio"`
	Category     string   `json:"category,omitempty" jsonschema:"restrict to one category: projects, education, experience, certification or hackathon"`
	Limit        int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Technologies []string `json:"technologies,omitempty" jsonschema:"keep only results mentioning one of these technologies"`
}

// SearchOutput is the output schema for the search_portfolio tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID      string   `json:"chunk_id"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	FilePath     string   `json:"file_path"`
	Score        float64  `json:"score"`
	Technologies []string `json:"technologies,omitempty"`
	Content      string   `json:"content"`
}

// AskInput is the input schema for the ask_portfolio tool.
type AskInput struct {
	Message   string `json:"message" jsonschema:"the question to ask about the portfolio"`
	SessionID string `json:"session_id,omitempty" jsonschema:"continue an earlier conversation"`
}

// AskOutput is the output schema for the ask_portfolio tool.
type AskOutput struct {
	Response           string         `json:"response"`
	SessionID          string         `json:"session_id"`
	Sources            []SourceOutput `json:"sources"`
	SuggestedQuestions []string       `json:"suggested_questions,omitempty"`
}

// SourceOutput is a citation of an answer.
type SourceOutput struct {
	Filename string  `json:"filename"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// StatsInput is the empty input of the portfolio_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the portfolio_stats tool.
type StatsOutput struct {
	Collections    map[string]int `json:"collections"`
	TotalDocuments int            `json:"total_documents"`
	Categories     []string       `json:"categories"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_portfolio",
		Description: "Semantic search across the indexed portfolio",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_portfolio",
		Description: "Ask a question about the portfolio and get a cited answer",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "portfolio_stats",
		Description: "Chunk counts per portfolio collection",
	}, s.handleStats)
}

// handleSearch handles the search_portfolio tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	opts := domain.SearchOptions{Limit: limit, Technologies: input.Technologies}
	if input.Category != "" {
		cat, err := domain.ParseCategory(input.Category)
		if err != nil {
			return nil, SearchOutput{}, err
		}
		opts.Category = cat
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = SearchResultOutput{
			ChunkID:      r.ID,
			Title:        r.Metadata.Title,
			Category:     r.Metadata.Category,
			FilePath:     r.Metadata.FilePath,
			Score:        domain.ClampScore(r.Score),
			Technologies: r.Metadata.Technologies,
			Content:      r.Text,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask_portfolio tool invocation.
// A degraded turn is still a successful call; the apology is the answer.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Chat == nil {
		return nil, AskOutput{}, ErrChatUnavailable
	}
	if input.Message == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	result := s.ports.Chat.HandleTurn(ctx, input.Message, input.SessionID)

	output := AskOutput{
		Response:           result.Response,
		SessionID:          result.SessionID,
		Sources:            make([]SourceOutput, len(result.Sources)),
		SuggestedQuestions: result.SuggestedQuestions,
	}
	for i, src := range result.Sources {
		output.Sources[i] = SourceOutput{
			Filename: src.Filename,
			Category: src.Category,
			Score:    domain.ClampScore(src.RelevanceScore),
		}
	}
	return nil, output, nil
}

// handleStats handles the portfolio_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	out, err := s.stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) stats(ctx context.Context) (StatsOutput, error) {
	out := StatsOutput{Collections: map[string]int{}, Categories: []string{}}
	if s.ports.Index == nil {
		return out, nil
	}

	st, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return out, fmt.Errorf("reading stats: %w", err)
	}
	for c, n := range st.Collections {
		out.Collections[c.String()] = n
	}
	for _, c := range st.Categories {
		out.Categories = append(out.Categories, c.String())
	}
	out.TotalDocuments = st.TotalDocuments
	return out, nil
}
