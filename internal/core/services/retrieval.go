package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// maxRetrievalCategories is how many classified categories get their own query.
const maxRetrievalCategories = 2

// RetrievalService gathers context chunks for a question.
type RetrievalService struct {
	store      driven.VectorStore
	embedder   driven.EmbeddingService
	classifier *Classifier
	k          int
}

// NewRetrievalService creates a retrieval service returning at most k chunks by default.
func NewRetrievalService(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	classifier *Classifier,
	k int,
) *RetrievalService {
	if k <= 0 {
		k = domain.DefaultRetrievalK
	}
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &RetrievalService{
		store:      store,
		embedder:   embedder,
		classifier: classifier,
		k:          k,
	}
}

// K returns the default number of chunks per query.
func (r *RetrievalService) K() int {
	return r.k
}

// Retrieve returns up to maxChunks context chunks for query, best first.
//
// The top two classified categories are searched for maxChunks/2 chunks
// each, then the unified collection for maxChunks. Results are merged
// keeping the first occurrence of each chunk ID. Any failure yields an
// empty result with Err set; the classification is always filled in.
func (r *RetrievalService) Retrieve(ctx context.Context, query string, maxChunks int) domain.RetrievalResult {
	if maxChunks <= 0 {
		maxChunks = r.k
	}

	classification := r.classifier.Classify(query)
	result := domain.RetrievalResult{Classification: classification}

	logger.Debug("Retrieve: categories=%v technologies=%v intent=%s",
		classification.Categories, classification.Technologies, classification.Intent)

	if strings.TrimSpace(query) == "" {
		return result
	}

	chunks, err := r.gather(ctx, query, classification, maxChunks)
	if err != nil {
		logger.Warn("Retrieval failed, continuing without context: %v", err)
		result.Err = err
		return result
	}

	result.Chunks = chunks
	logger.Debug("Retrieve: %d chunks", len(chunks))
	return result
}

func (r *RetrievalService) gather(
	ctx context.Context, query string, classification domain.QueryClassification, maxChunks int,
) ([]domain.SearchResult, error) {
	if r.store == nil || r.embedder == nil {
		return nil, fmt.Errorf("%w: vector store or embedder not configured", domain.ErrRetrieval)
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}

	var all []domain.SearchResult

	perCategory := maxChunks / 2
	if perCategory > 0 {
		for _, cat := range classification.TopCategories(maxRetrievalCategories) {
			// Technologies are advisory here; only the category is filtered on.
			hits, err := r.store.Query(ctx, domain.CollectionFor(cat), vector, perCategory,
				domain.MetadataFilter{domain.MetaCategory: cat.String()})
			if err != nil {
				return nil, fmt.Errorf("%w: query %s: %w", domain.ErrRetrieval, cat, err)
			}
			all = append(all, hits...)
		}
	}

	hits, err := r.store.Query(ctx, domain.UnifiedCollection, vector, maxChunks, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query unified: %w", domain.ErrRetrieval, err)
	}
	all = append(all, hits...)

	return mergeResults(all, maxChunks), nil
}

// mergeResults drops repeated IDs (first wins), orders by descending
// score and truncates to limit.
func mergeResults(results []domain.SearchResult, limit int) []domain.SearchResult {
	seen := make(map[string]bool, len(results))
	unique := make([]domain.SearchResult, 0, len(results))
	for _, res := range results {
		if seen[res.ID] {
			continue
		}
		seen[res.ID] = true
		unique = append(unique, res)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score > unique[j].Score
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
