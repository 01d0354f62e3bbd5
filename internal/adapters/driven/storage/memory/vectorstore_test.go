package memory

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

func chunk(id, category, file string, vec ...float32) domain.Chunk {
	return domain.Chunk{
		ID:        id,
		Text:      "text of " + id,
		Embedding: vec,
		Metadata: domain.ChunkMetadata{
			Category: category,
			FilePath: file,
			ChunkID:  id,
		},
	}
}

func TestNewVectorStore(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	for _, c := range domain.AllCollections() {
		n, err := s.Count(ctx, c)
		require.NoError(t, err)
		assert.Zero(t, n, c)
	}
	require.NoError(t, s.Close())
}

func TestVectorStore_UnknownCollection(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	err := s.Upsert(ctx, "blog", []domain.Chunk{chunk("a", "blog", "f", 1)})
	assert.ErrorIs(t, err, domain.ErrUnknownCollection)

	_, err = s.Query(ctx, "blog", []float32{1}, 3, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownCollection)

	_, err = s.Count(ctx, "blog")
	assert.ErrorIs(t, err, domain.ErrUnknownCollection)
}

func TestVectorStore_UpsertReplaces(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, domain.UnifiedCollection, []domain.Chunk{chunk("a", "projects", "f", 1, 0)}))
	updated := chunk("a", "projects", "f", 0, 1)
	updated.Text = "new text"
	require.NoError(t, s.Upsert(ctx, domain.UnifiedCollection, []domain.Chunk{updated}))

	n, err := s.Count(ctx, domain.UnifiedCollection)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := s.Query(ctx, domain.UnifiedCollection, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new text", results[0].Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)

	err = s.Upsert(ctx, domain.UnifiedCollection, []domain.Chunk{{Text: "no id"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_Query(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, domain.UnifiedCollection, []domain.Chunk{
		chunk("far", "education", "e.md", -1, 0),
		chunk("near", "projects", "p.md", 1, 0),
		chunk("mid", "projects", "p.md", 1, 1),
	}))

	t.Run("ranks by similarity", func(t *testing.T) {
		results, err := s.Query(ctx, domain.UnifiedCollection, []float32{1, 0}, 10, nil)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "near", results[0].ID)
		assert.Equal(t, "mid", results[1].ID)
		assert.Equal(t, "far", results[2].ID)
		assert.InDelta(t, 2.0, results[2].Distance, 1e-9)
		assert.InDelta(t, -1.0, results[2].Score, 1e-9, "scores are not clamped")
	})

	t.Run("limits to k", func(t *testing.T) {
		results, err := s.Query(ctx, domain.UnifiedCollection, []float32{1, 0}, 1, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "near", results[0].ID)
	})

	t.Run("zero k", func(t *testing.T) {
		results, err := s.Query(ctx, domain.UnifiedCollection, []float32{1, 0}, 0, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("filters by metadata", func(t *testing.T) {
		results, err := s.Query(ctx, domain.UnifiedCollection, []float32{1, 0}, 10,
			domain.MetadataFilter{domain.MetaCategory: "education"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "far", results[0].ID)
	})

	t.Run("no chunk of the query dimension", func(t *testing.T) {
		results, err := s.Query(ctx, domain.UnifiedCollection, []float32{1, 0, 0}, 10, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestVectorStore_QuerySkipsOtherDimensions(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	s := NewVectorStore()
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, domain.UnifiedCollection, []domain.Chunk{
		chunk("old", "projects", "p.md", 1, 0, 0),
		chunk("new", "projects", "p.md", 1, 0),
	}))

	results, err := s.Query(ctx, domain.UnifiedCollection, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].ID)
	assert.Contains(t, buf.String(), "Skipped 1 chunks in unified")
	assert.Contains(t, buf.String(), "run refresh")
}

func TestVectorStore_Delete(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, domain.CollectionFor(domain.CategoryProjects), []domain.Chunk{
		chunk("p_0", "projects", "/d/p.md", 1),
		chunk("p_1", "projects", "/d/p.md", 1),
		chunk("q_0", "projects", "/d/q.md", 1),
	}))

	removed, err := s.Delete(ctx, domain.CollectionFor(domain.CategoryProjects),
		domain.MetadataFilter{domain.MetaFilePath: "/d/p.md"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	n, _ := s.Count(ctx, domain.CollectionFor(domain.CategoryProjects))
	assert.Equal(t, 1, n)

	_, err = s.Delete(ctx, domain.UnifiedCollection, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_Reset(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	for _, c := range domain.AllCollections() {
		require.NoError(t, s.Upsert(ctx, c, []domain.Chunk{chunk("x", "projects", "f", 1)}))
	}
	require.NoError(t, s.Reset(ctx))

	for _, c := range domain.AllCollections() {
		n, err := s.Count(ctx, c)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}

func TestVectorStore_CopiesEmbedding(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	vec := []float32{1, 0}
	require.NoError(t, s.Upsert(ctx, domain.UnifiedCollection, []domain.Chunk{chunk("a", "projects", "f", vec...)}))
	vec[0], vec[1] = 0, 1

	results, err := s.Query(ctx, domain.UnifiedCollection, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestVectorStore_Concurrent(t *testing.T) {
	s := NewVectorStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			id := domain.ChunkID("projects", "doc", i)
			assert.NoError(t, s.Upsert(ctx, domain.UnifiedCollection, []domain.Chunk{chunk(id, "projects", "f", 1, float32(i))}))
		}(i)
		go func() {
			defer wg.Done()
			_, err := s.Query(ctx, domain.UnifiedCollection, []float32{1, 1}, 5, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := s.Count(ctx, domain.UnifiedCollection)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}
