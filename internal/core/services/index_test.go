package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishinpoolat/portfolio/internal/adapters/driven/storage/memory"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/normalisers/markdown"
	"github.com/rishinpoolat/portfolio/internal/postprocessors/chunker"
)

const (
	chatPath   = "/data/projects/chat.md"
	degreePath = "/data/education/degree.md"
	brokenPath = "/data/projects/broken.md"
)

func testSource() *mockSource {
	return &mockSource{
		root: "/data",
		files: []domain.SourceFile{
			{Path: chatPath, Category: "projects"},
			{Path: degreePath, Category: "education"},
			{Path: brokenPath, Category: "projects"},
		},
		content: map[string]string{
			chatPath:   "---\ntitle: Chat Server\ntechnologies: [Node.js, MongoDB]\nstatus: live\n---\nA realtime chat server.",
			degreePath: "BSc in Computer Science.",
		},
	}
}

func newTestIndexService(src *mockSource, emb *mockEmbedder) (*IndexService, *VectorGuard) {
	guard := NewVectorGuard(memory.NewVectorStore())
	svc := NewIndexService(src, markdown.New(),
		chunker.New(chunker.WithChunkSize(100), chunker.WithOverlap(10)),
		emb, guard, WithIndexWorkers(2))
	return svc, guard
}

func TestIndexService_IndexAll(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestIndexService(testSource(), newMockEmbedder())

	stats, err := svc.IndexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.IndexStats{TotalFiles: 3, Successful: 2, Failed: 1, TotalChunks: 2}, stats)

	n, err := store.Count(ctx, domain.UnifiedCollection)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := store.Query(ctx, domain.CollectionFor(domain.CategoryProjects), []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "projects_chat_0", got.ID)
	assert.Equal(t, "# Chat Server\n\nA realtime chat server.", got.Text)
	md := got.Metadata
	assert.Equal(t, "Chat Server", md.Title)
	assert.Equal(t, "projects", md.Category)
	assert.Equal(t, "chat.md", md.Filename)
	assert.Equal(t, chatPath, md.FilePath)
	assert.ElementsMatch(t, []string{"node.js", "mongodb"}, md.Technologies)
	assert.Equal(t, 0, md.ChunkIndex)
	assert.Equal(t, 1, md.TotalChunks)
	assert.Equal(t, "live", md.Extra["status"])
}

func TestIndexService_IndexAllTwiceIsStable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestIndexService(testSource(), newMockEmbedder())

	first, err := svc.IndexAll(ctx)
	require.NoError(t, err)
	second, err := svc.IndexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIndexService_Refresh(t *testing.T) {
	ctx := context.Background()
	src := testSource()
	svc, store := newTestIndexService(src, newMockEmbedder())

	// A chunk from a file that no longer exists.
	require.NoError(t, store.Upsert(ctx, domain.UnifiedCollection, []domain.Chunk{seedChunk("projects", "gone", 1, 0)}))

	first, err := svc.Refresh(ctx)
	require.NoError(t, err)
	second, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.Successful)

	n, err := store.Count(ctx, domain.UnifiedCollection)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "stale chunk removed")
}

func TestIndexService_ListFailure(t *testing.T) {
	src := testSource()
	src.listErr = errors.New("no data dir")
	svc, _ := newTestIndexService(src, newMockEmbedder())

	_, err := svc.IndexAll(context.Background())
	assert.Error(t, err)
}

func TestIndexService_EmbeddingFailure(t *testing.T) {
	emb := newMockEmbedder()
	emb.err = errors.New("ollama down")
	svc, _ := newTestIndexService(testSource(), emb)

	stats, err := svc.IndexAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Successful)
	assert.Equal(t, 3, stats.Failed)
}

func TestIndexService_IndexFile(t *testing.T) {
	ctx := context.Background()
	src := testSource()
	svc, store := newTestIndexService(src, newMockEmbedder())

	src.content[chatPath] = strings.Repeat("word ", 60)
	n, err := svc.IndexFile(ctx, chatPath)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 3)

	t.Run("shorter revision drops trailing chunks", func(t *testing.T) {
		src.content[chatPath] = "Short now."
		n, err := svc.IndexFile(ctx, chatPath)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		for _, c := range []domain.Collection{domain.CollectionFor(domain.CategoryProjects), domain.UnifiedCollection} {
			count, err := store.Count(ctx, c)
			require.NoError(t, err)
			assert.Equal(t, 1, count, c)
		}
	})

	t.Run("unknown category goes to unified only", func(t *testing.T) {
		src.content["/data/blog/post.md"] = "A post."
		_, err := svc.IndexFile(ctx, "/data/blog/post.md")
		require.NoError(t, err)

		count, err := store.Count(ctx, domain.UnifiedCollection)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("remove file", func(t *testing.T) {
		removed, err := svc.RemoveFile(ctx, chatPath)
		require.NoError(t, err)
		assert.Equal(t, 2, removed, "category and unified copies")
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := svc.IndexFile(ctx, brokenPath)
		assert.Error(t, err)
	})
}

func TestIndexService_NoEmbedder(t *testing.T) {
	guard := NewVectorGuard(memory.NewVectorStore())
	svc := NewIndexService(testSource(), markdown.New(), chunker.New(), nil, guard)

	_, err := svc.IndexFile(context.Background(), chatPath)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIndexService_Stats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestIndexService(testSource(), newMockEmbedder())
	_, err := svc.IndexAll(ctx)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, domain.AllCategories(), stats.Categories)
	assert.Equal(t, 1, stats.Collections[domain.CollectionFor(domain.CategoryProjects)])
	assert.Equal(t, 1, stats.Collections[domain.CollectionFor(domain.CategoryEducation)])
	assert.Equal(t, 0, stats.Collections[domain.CollectionFor(domain.CategoryHackathon)])
	assert.Equal(t, 2, stats.Collections[domain.UnifiedCollection])
}

func TestIndexService_Health(t *testing.T) {
	ctx := context.Background()

	t.Run("all reachable", func(t *testing.T) {
		guard := NewVectorGuard(memory.NewVectorStore())
		svc := NewIndexService(testSource(), markdown.New(), chunker.New(), newMockEmbedder(), guard,
			WithHealthLLM(&mockLLM{}))

		h := svc.Health(ctx)
		assert.True(t, h.Healthy())
		assert.Equal(t, "mock-embed", h.EmbeddingModel)
		assert.Equal(t, "mock-llm", h.LLMModel)
		assert.Len(t, h.Collections, len(domain.AllCollections()))
	})

	t.Run("failures reported", func(t *testing.T) {
		emb := newMockEmbedder()
		emb.pingErr = errors.New("refused")
		guard := NewVectorGuard(&mockVectorStore{countErr: errors.New("locked")})
		svc := NewIndexService(testSource(), markdown.New(), chunker.New(), emb, guard)

		h := svc.Health(ctx)
		assert.False(t, h.VectorStore)
		assert.False(t, h.Embedding)
		assert.False(t, h.LLM)
		assert.Empty(t, h.LLMModel)
	})
}

func TestVectorGuard_ExclusiveBlocksReaders(t *testing.T) {
	ctx := context.Background()
	guard := NewVectorGuard(memory.NewVectorStore())

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = guard.Exclusive(func(driven.VectorStore) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	go func() {
		_, _ = guard.Count(ctx, domain.UnifiedCollection)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("read completed during exclusive section")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("read did not complete after exclusive section")
	}
}
