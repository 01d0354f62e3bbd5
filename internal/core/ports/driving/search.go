package driving

import (
	"context"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// SearchService provides explicit semantic search over indexed chunks.
type SearchService interface {
	// Search returns chunks most similar to query.
	// Store failures degrade to an empty result.
	// Returns domain.ErrUnknownCategory for an unrecognised category.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
