package driven

import (
	"context"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// VectorStore holds embedded chunks in named collections, one per category
// plus the unified collection, and answers nearest-neighbour queries.
//
// Implementations must be safe for concurrent use. Upserting an existing
// chunk ID replaces it.
type VectorStore interface {
	// Upsert stores chunks in a collection.
	// Returns domain.ErrUnknownCollection for unmanaged collections.
	Upsert(ctx context.Context, collection domain.Collection, chunks []domain.Chunk) error

	// Query returns up to k chunks nearest to vector, most similar first.
	// Only chunks whose flattened metadata matches filter are considered.
	Query(ctx context.Context, collection domain.Collection, vector []float32, k int, filter domain.MetadataFilter) ([]domain.SearchResult, error)

	// Delete removes every chunk in a collection whose metadata matches filter
	// and returns how many were removed. An empty filter is rejected.
	Delete(ctx context.Context, collection domain.Collection, filter domain.MetadataFilter) (int, error)

	// Count returns the number of chunks in a collection.
	Count(ctx context.Context, collection domain.Collection) (int, error)

	// Reset empties every collection.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
