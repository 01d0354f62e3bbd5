package driving

import (
	"context"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// IndexService builds and maintains the vector store from the portfolio tree.
type IndexService interface {
	// IndexAll indexes every markdown file under the category directories.
	// Files that fail are logged and counted; they never abort the run.
	IndexAll(ctx context.Context) (domain.IndexStats, error)

	// IndexFile indexes a single file, replacing its previous chunks.
	IndexFile(ctx context.Context, path string) (int, error)

	// RemoveFile deletes every chunk of a file from all collections.
	RemoveFile(ctx context.Context, path string) (int, error)

	// Refresh empties every collection and re-indexes. Queries issued
	// during a refresh observe the old or the new contents, never a mix.
	Refresh(ctx context.Context) (domain.IndexStats, error)

	// Stats returns per-collection chunk counts.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Health reports whether the store and AI providers are reachable.
	Health(ctx context.Context) domain.HealthStatus
}
