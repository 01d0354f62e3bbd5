// Package memory provides in-memory implementations of the driven storage ports.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore using
// exact cosine search. Contents are lost when the process exits.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[domain.Collection]map[string]storedChunk
}

type storedChunk struct {
	chunk  domain.Chunk
	fields map[string]string
}

// NewVectorStore creates a store with every managed collection present and empty.
func NewVectorStore() *VectorStore {
	s := &VectorStore{}
	s.reset()
	return s
}

func (s *VectorStore) reset() {
	s.collections = make(map[domain.Collection]map[string]storedChunk)
	for _, c := range domain.AllCollections() {
		s.collections[c] = make(map[string]storedChunk)
	}
}

func (s *VectorStore) collection(c domain.Collection) (map[string]storedChunk, error) {
	col, ok := s.collections[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
	}
	return col, nil
}

// Upsert stores chunks, replacing any with the same ID.
func (s *VectorStore) Upsert(_ context.Context, collection domain.Collection, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(collection)
	if err != nil {
		return err
	}
	for _, ch := range chunks {
		if ch.ID == "" {
			return fmt.Errorf("%w: chunk without id", domain.ErrInvalidInput)
		}
		ch.Embedding = append([]float32(nil), ch.Embedding...)
		col[ch.ID] = storedChunk{chunk: ch, fields: ch.Metadata.Flatten()}
	}
	return nil
}

// Query returns up to k chunks nearest to vector.
// Chunks embedded with a different dimension are skipped.
func (s *VectorStore) Query(_ context.Context, collection domain.Collection, vector []float32, k int, filter domain.MetadataFilter) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(col))
	skipped := 0
	for id, sc := range col {
		if !filter.Matches(sc.fields) {
			continue
		}
		if len(sc.chunk.Embedding) != len(vector) {
			skipped++
			continue
		}
		dist, err := domain.CosineDistance(vector, sc.chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("query %s: chunk %s: %w", collection, id, err)
		}
		results = append(results, domain.NewSearchResult(id, sc.chunk.Text, sc.chunk.Metadata, dist))
	}
	if skipped > 0 {
		logger.Warn(domain.DimensionMismatchWarning, skipped, collection, len(vector))
	}
	return domain.SortByDistance(results, k), nil
}

// Delete removes chunks whose metadata matches filter.
func (s *VectorStore) Delete(_ context.Context, collection domain.Collection, filter domain.MetadataFilter) (int, error) {
	if len(filter) == 0 {
		return 0, fmt.Errorf("%w: delete requires a filter", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	removed := 0
	for id, sc := range col {
		if filter.Matches(sc.fields) {
			delete(col, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of chunks in a collection.
func (s *VectorStore) Count(_ context.Context, collection domain.Collection) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	return len(col), nil
}

// Reset empties every collection.
func (s *VectorStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
