package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driving"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// defaultIndexWorkers bounds how many documents are processed at once.
const defaultIndexWorkers = 4

// IndexService turns the portfolio tree into embedded chunks.
type IndexService struct {
	source   driven.DocumentSource
	parser   driven.DocumentParser
	chunker  driven.TextChunker
	embedder driven.EmbeddingService
	store    *VectorGuard
	llm      driven.LLMService
	workers  int
}

// IndexOption configures the index service.
type IndexOption func(*IndexService)

// WithIndexWorkers sets the number of documents processed concurrently.
func WithIndexWorkers(n int) IndexOption {
	return func(s *IndexService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithHealthLLM sets the language model reported by Health.
func WithHealthLLM(llm driven.LLMService) IndexOption {
	return func(s *IndexService) {
		s.llm = llm
	}
}

// NewIndexService creates an index service writing through store.
func NewIndexService(
	source driven.DocumentSource,
	parser driven.DocumentParser,
	chunker driven.TextChunker,
	embedder driven.EmbeddingService,
	store *VectorGuard,
	opts ...IndexOption,
) *IndexService {
	s := &IndexService{
		source:   source,
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		workers:  defaultIndexWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexAll indexes every markdown file the source lists.
func (s *IndexService) IndexAll(ctx context.Context) (domain.IndexStats, error) {
	logger.Section("Indexing")
	return s.indexAll(ctx, s.store)
}

// Refresh empties every collection and indexes from scratch while holding
// the store exclusively.
func (s *IndexService) Refresh(ctx context.Context) (domain.IndexStats, error) {
	logger.Section("Refresh")

	var stats domain.IndexStats
	err := s.store.Exclusive(func(store driven.VectorStore) error {
		if err := store.Reset(ctx); err != nil {
			return fmt.Errorf("reset vector store: %w", err)
		}
		var err error
		stats, err = s.indexAll(ctx, store)
		return err
	})
	return stats, err
}

func (s *IndexService) indexAll(ctx context.Context, store driven.VectorStore) (domain.IndexStats, error) {
	files, err := s.source.List(ctx)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("list documents: %w", err)
	}
	logger.Info("Indexing %d files from %s", len(files), s.source.Root())

	var (
		mu    sync.Mutex
		stats = domain.IndexStats{TotalFiles: len(files)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, f := range files {
		g.Go(func() error {
			n, err := s.indexDocument(gctx, store, f.Path, f.Category)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("Skipping %s: %v", f.Path, err)
				stats.Failed++
				return nil
			}
			logger.Info("Added %d chunks from %s to %s", n, filepath.Base(f.Path), f.Category)
			stats.Successful++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("indexing cancelled: %w", err)
	}

	total, err := categoryChunkCount(ctx, store)
	if err != nil {
		return stats, err
	}
	stats.TotalChunks = total

	logger.Info("Indexed %d/%d files (%d failed), %d chunks",
		stats.Successful, stats.TotalFiles, stats.Failed, stats.TotalChunks)
	return stats, nil
}

// IndexFile indexes a single file, replacing any chunks it had before.
// The category is the name of the file's parent directory.
func (s *IndexService) IndexFile(ctx context.Context, path string) (int, error) {
	category := filepath.Base(filepath.Dir(path))
	return s.indexDocument(ctx, s.store, path, category)
}

// RemoveFile deletes a file's chunks from every collection.
func (s *IndexService) RemoveFile(ctx context.Context, path string) (int, error) {
	return removeDocument(ctx, s.store, path)
}

// indexDocument reads, parses, chunks and embeds one file, then writes its
// chunks to the category collection (when the category is known) and to
// the unified collection.
func (s *IndexService) indexDocument(
	ctx context.Context, store driven.VectorStore, path, category string,
) (int, error) {
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	raw, err := s.source.Read(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := s.parser.Parse(ctx, raw, category)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	texts := s.chunker.Split(doc.FullText())
	if len(texts) == 0 {
		return 0, fmt.Errorf("%w: %s has no content", domain.ErrProcessing, path)
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", path, err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embed %s: got %d vectors for %d chunks", path, len(vectors), len(texts))
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		id := domain.ChunkID(doc.Category, doc.Stem, i)
		chunks[i] = domain.Chunk{
			ID:        id,
			Text:      text,
			Embedding: vectors[i],
			Metadata: domain.ChunkMetadata{
				Title:        doc.Title,
				Category:     doc.Category,
				Filename:     doc.Filename,
				FilePath:     doc.Path,
				FileSize:     doc.Size,
				LastModified: doc.ModifiedAt,
				Technologies: doc.Technologies,
				ChunkID:      id,
				ChunkIndex:   i,
				TotalChunks:  len(texts),
				Preview:      domain.PreviewText(text),
				Extra:        doc.Extra,
			},
		}
	}

	// A shorter revision must not leave stale trailing chunks behind.
	if _, err := removeDocument(ctx, store, doc.Path); err != nil {
		return 0, err
	}

	for _, c := range targetCollections(doc.Category) {
		if err := store.Upsert(ctx, c, chunks); err != nil {
			return 0, fmt.Errorf("store %s in %s: %w", path, c, err)
		}
	}
	return len(chunks), nil
}

func removeDocument(ctx context.Context, store driven.VectorStore, path string) (int, error) {
	filter := domain.MetadataFilter{domain.MetaFilePath: path}
	removed := 0
	for _, c := range domain.AllCollections() {
		n, err := store.Delete(ctx, c, filter)
		if err != nil {
			return removed, fmt.Errorf("remove %s from %s: %w", path, c, err)
		}
		removed += n
	}
	return removed, nil
}

// targetCollections returns the collections a document of category is written to.
func targetCollections(category string) []domain.Collection {
	cat := domain.Category(category)
	if cat.IsValid() {
		return []domain.Collection{domain.CollectionFor(cat), domain.UnifiedCollection}
	}
	return []domain.Collection{domain.UnifiedCollection}
}

func categoryChunkCount(ctx context.Context, store driven.VectorStore) (int, error) {
	total := 0
	for _, cat := range domain.AllCategories() {
		n, err := store.Count(ctx, domain.CollectionFor(cat))
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", cat, err)
		}
		logger.Debug("%s collection: %d chunks", cat, n)
		total += n
	}
	return total, nil
}

// Stats returns per-collection chunk counts.
func (s *IndexService) Stats(ctx context.Context) (domain.StoreStats, error) {
	stats := domain.StoreStats{
		Collections: make(map[domain.Collection]int),
		Categories:  domain.AllCategories(),
	}
	for _, c := range domain.AllCollections() {
		n, err := s.store.Count(ctx, c)
		if err != nil {
			return domain.StoreStats{}, fmt.Errorf("count %s: %w", c, err)
		}
		stats.Collections[c] = n
		if !c.IsUnified() {
			stats.TotalDocuments += n
		}
	}
	return stats, nil
}

// Health checks the vector store and both AI providers.
func (s *IndexService) Health(ctx context.Context) domain.HealthStatus {
	var h domain.HealthStatus

	stats, err := s.Stats(ctx)
	if err != nil {
		logger.Warn("Vector store health check failed: %v", err)
	} else {
		h.VectorStore = true
		h.Collections = stats.Collections
	}

	if s.embedder != nil {
		h.EmbeddingModel = s.embedder.ModelName()
		h.Embedding = pingOK(ctx, "Embedding", s.embedder.Ping)
	}
	if s.llm != nil {
		h.LLMModel = s.llm.ModelName()
		h.LLM = pingOK(ctx, "LLM", s.llm.Ping)
	}
	return h
}

func pingOK(ctx context.Context, name string, ping func(context.Context) error) bool {
	if err := ping(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("%s health check failed: %v", name, err)
		}
		return false
	}
	return true
}
