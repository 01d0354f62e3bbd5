package services

import (
	"context"
	"sync"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// Ensure VectorGuard implements the interface.
var _ driven.VectorStore = (*VectorGuard)(nil)

// VectorGuard serialises full rebuilds of a vector store against
// ordinary reads and writes. Regular operations share the lock, so they
// run concurrently with each other but never observe a half-rebuilt store.
type VectorGuard struct {
	mu    sync.RWMutex
	store driven.VectorStore
}

// NewVectorGuard wraps store.
func NewVectorGuard(store driven.VectorStore) *VectorGuard {
	return &VectorGuard{store: store}
}

// Upsert writes chunks under the shared lock.
func (g *VectorGuard) Upsert(ctx context.Context, collection domain.Collection, chunks []domain.Chunk) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.Upsert(ctx, collection, chunks)
}

// Query searches under the shared lock.
func (g *VectorGuard) Query(
	ctx context.Context, collection domain.Collection, vector []float32, k int, filter domain.MetadataFilter,
) ([]domain.SearchResult, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.Query(ctx, collection, vector, k, filter)
}

// Delete removes chunks under the shared lock.
func (g *VectorGuard) Delete(ctx context.Context, collection domain.Collection, filter domain.MetadataFilter) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.Delete(ctx, collection, filter)
}

// Count counts under the shared lock.
func (g *VectorGuard) Count(ctx context.Context, collection domain.Collection) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.Count(ctx, collection)
}

// Reset empties the store under the exclusive lock.
func (g *VectorGuard) Reset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.Reset(ctx)
}

// Close closes the underlying store.
func (g *VectorGuard) Close() error {
	return g.store.Close()
}

// Exclusive runs fn with the underlying store while holding the exclusive
// lock. fn must use the store it is given, not the guard.
func (g *VectorGuard) Exclusive(fn func(store driven.VectorStore) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.store)
}
