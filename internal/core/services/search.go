package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driving"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Search limits.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50

	// technologyOverfetch widens the store query when results are
	// post-filtered by technology.
	technologyOverfetch = 3
)

// SearchService provides explicit semantic search over one collection.
type SearchService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.VectorStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		store:    store,
		embedder: embedder,
	}
}

// Search returns the chunks nearest to query.
//
// An empty category searches the unified collection. When technologies
// are given, only results carrying at least one of them are kept.
// Store and embedding failures are logged and produce no results.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	collection := domain.UnifiedCollection
	if opts.Category != "" {
		if !opts.Category.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, opts.Category)
		}
		collection = domain.CollectionFor(opts.Category)
	}

	// Return empty for empty query
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	internalLimit := limit
	if len(opts.Technologies) > 0 {
		internalLimit = limit * technologyOverfetch
		logger.Debug("Technology filter: %v", opts.Technologies)
	}
	logger.Debug("Collection: %s, limit: %d, internal limit: %d", collection, limit, internalLimit)

	if s.store == nil || s.embedder == nil {
		logger.Warn("Search unavailable: vector store or embedder not configured")
		return []domain.SearchResult{}, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return []domain.SearchResult{}, nil
	}

	results, err := s.store.Query(ctx, collection, vector, internalLimit, nil)
	if err != nil {
		logger.Warn("Vector search failed: %v", err)
		return []domain.SearchResult{}, nil
	}
	logger.Debug("Raw results: %d chunks", len(results))

	if len(opts.Technologies) > 0 {
		results = filterByTechnologies(results, opts.Technologies)
		logger.Debug("After technology filter: %d results", len(results))
	}

	if len(results) > limit {
		results = results[:limit]
	}
	logger.Info("Final results: %d", len(results))
	return results, nil
}

// filterByTechnologies keeps results carrying at least one of techs.
func filterByTechnologies(results []domain.SearchResult, techs []string) []domain.SearchResult {
	filtered := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if r.HasAnyTechnology(techs) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
