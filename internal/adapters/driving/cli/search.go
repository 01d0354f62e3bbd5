package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/rest"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

const snippetLength = 160

var (
	searchLimit    int
	searchCategory string
	searchTechs    []string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed portfolio",
	Long: `Performs semantic search across the indexed portfolio chunks.
Searches every category unless --category narrows it to one collection;
--tech keeps only chunks mentioning at least one of the given technologies.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "restrict to one category")
	searchCmd.Flags().StringSliceVarP(&searchTechs, "tech", "t", nil, "technologies to filter by (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:        searchLimit,
		Technologies: searchTechs,
	}
	if searchCategory != "" {
		cat, err := domain.ParseCategory(searchCategory)
		if err != nil {
			return err
		}
		opts.Category = cat
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(rest.NewSearchResults(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		title := r.Metadata.Title
		if title == "" {
			title = r.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, domain.ClampScore(r.Score))
		cmd.Printf("      %s · %s\n", r.Metadata.Category, r.Metadata.Filename)
		if len(r.Metadata.Technologies) > 0 {
			cmd.Printf("      Technologies: %s\n", strings.Join(r.Metadata.Technologies, ", "))
		}
		if snippet := snippet(r.Text); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// snippet flattens text onto one line and shortens it.
func snippet(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	runes := []rune(s)
	if len(runes) <= snippetLength {
		return s
	}
	return string(runes[:snippetLength]) + "..."
}
