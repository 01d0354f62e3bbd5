package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "", "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)

	require.NotNil(t, searchCmd.Flags().Lookup("category"))
	require.NotNil(t, searchCmd.Flags().Lookup("tech"))
	require.NotNil(t, searchCmd.Flags().Lookup("json"))
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "search", "chat apps")

	require.NoError(t, err)
	assert.Equal(t, "chat apps", mocks.search.query)
	assert.Equal(t, 10, mocks.search.opts.Limit)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Chat App (0.87)")
	assert.Contains(t, out, "projects · chat.md")
	assert.Contains(t, out, "Technologies: node.js, mongodb")
	assert.Contains(t, out, "A realtime chat application.")
}

func TestSearchCmd_Options(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "search", "-n", "3", "--category", "Projects", "--tech", "python,go", "--tech", "rust", "q")

	require.NoError(t, err)
	assert.Equal(t, 3, mocks.search.opts.Limit)
	assert.Equal(t, domain.CategoryProjects, mocks.search.opts.Category)
	assert.Equal(t, []string{"python", "go", "rust"}, mocks.search.opts.Technologies)
}

func TestSearchCmd_UnknownCategory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "search", "--category", "blog", "q")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "search", "--json", "test query")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "A realtime chat application.", results[0]["document"])
	assert.InDelta(t, 0.87, results[0]["relevance_score"], 1e-9)
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := searchService
	searchService = nil
	defer func() {
		searchService = oldService
	}()

	_, err := execute(t, "", "search", "test")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mocks.search.err = errMock

	_, err := execute(t, "", "search", "test")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestOutputSearchTable_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchTable(rootCmd, []domain.SearchResult{})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found")
}

func TestOutputSearchTable_ClampsAndFallsBackToID(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchTable(rootCmd, []domain.SearchResult{{ID: "hackathon_demo_0", Score: -0.3}})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[1] hackathon_demo_0 (0.00)")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "one two", snippet("one\n\n  two  "))

	long := strings.Repeat("a", snippetLength+5)
	got := snippet(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, []rune(got), snippetLength+3)
}
