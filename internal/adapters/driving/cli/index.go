package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the portfolio directory",
	Long: `Reads every markdown file under the category directories, splits it
into overlapping chunks, embeds them and stores them in the vector store.
Existing chunks of a file are replaced. Files that fail are reported and
skipped.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the vector store from scratch",
	Long: `Empties every collection and indexes the portfolio again. Searches
running at the same time see either the old or the new contents.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(refreshCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	start := time.Now()
	stats, err := indexService.IndexAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed portfolio in %s\n", time.Since(start).Round(time.Millisecond))
	printIndexStats(cmd, stats)
	return nil
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	start := time.Now()
	stats, err := indexService.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	cmd.Printf("Database refreshed in %s\n", time.Since(start).Round(time.Millisecond))
	printIndexStats(cmd, stats)
	return nil
}
