// Package storage selects a vector store implementation from settings.
package storage

import (
	"context"
	"fmt"

	"github.com/rishinpoolat/portfolio/internal/adapters/driven/storage/memory"
	"github.com/rishinpoolat/portfolio/internal/adapters/driven/storage/postgres"
	"github.com/rishinpoolat/portfolio/internal/adapters/driven/storage/sqlite"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// OpenVectorStore opens the configured backend. Failures wrap
// ErrVectorStoreUnavailable; unknown backends wrap ErrConfiguration.
func OpenVectorStore(ctx context.Context, settings domain.VectorStoreSettings) (driven.VectorStore, error) {
	switch settings.Backend {
	case domain.VectorBackendMemory:
		return memory.NewVectorStore(), nil

	case domain.VectorBackendSQLite, "":
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
		}
		return store, nil

	case domain.VectorBackendPostgres:
		store, err := postgres.NewStore(ctx, settings.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", domain.ErrConfiguration, settings.Backend)
	}
}
