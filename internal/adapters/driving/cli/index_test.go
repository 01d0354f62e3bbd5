package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

func TestIndexCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.index.stats = domain.IndexStats{TotalFiles: 4, Successful: 3, Failed: 1, TotalChunks: 12}

	out, err := execute(t, "", "index")

	require.NoError(t, err)
	assert.Equal(t, 1, mocks.index.indexAllCalls)
	assert.Contains(t, out, "Indexed portfolio in")
	assert.Contains(t, out, "Failed:     1")
	assert.Contains(t, out, "Chunks:     12")
}

func TestRefreshCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "refresh")

	require.NoError(t, err)
	assert.Equal(t, 1, mocks.index.refreshCalls)
	assert.Contains(t, out, "Database refreshed in")
}

func TestIndexCmd_Errors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.index.err = errMock

	_, err := execute(t, "", "index")
	assert.ErrorContains(t, err, "indexing failed")

	_, err = execute(t, "", "refresh")
	assert.ErrorContains(t, err, "refresh failed")

	indexService = nil
	_, err = execute(t, "", "index")
	assert.ErrorContains(t, err, "index service not configured")
}

func TestStatsCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.index.storeStats = domain.StoreStats{
		Collections: map[domain.Collection]int{
			domain.UnifiedCollection:                       9,
			domain.CollectionFor(domain.CategoryProjects):  5,
			domain.CollectionFor(domain.CategoryEducation): 4,
		},
		TotalDocuments: 9,
		Categories:     []domain.Category{domain.CategoryProjects, domain.CategoryEducation},
	}

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "", "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "Collections:")
		assert.Contains(t, out, "Total chunks: 9")
		assert.Less(t,
			strings.Index(out, domain.CollectionFor(domain.CategoryEducation).String()),
			strings.Index(out, domain.CollectionFor(domain.CategoryProjects).String()),
			"collections are sorted")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "", "stats", "--json")
		require.NoError(t, err)
		assert.Contains(t, out, `"total_documents": 9`)
	})
}

