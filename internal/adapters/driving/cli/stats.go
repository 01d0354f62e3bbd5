package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/rest"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	Long:  `Shows how many chunks each collection holds.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats, err := indexService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(rest.NewDatabaseStats(stats), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Collections:")
	names := make([]string, 0, len(stats.Collections))
	counts := make(map[string]int, len(stats.Collections))
	for c, n := range stats.Collections {
		names = append(names, c.String())
		counts[c.String()] = n
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("  %-24s %d\n", name, counts[name])
	}
	cmd.Println()
	cmd.Printf("Total chunks: %d\n", stats.TotalDocuments)
	return nil
}

func printIndexStats(cmd *cobra.Command, stats domain.IndexStats) {
	cmd.Printf("Files:      %d\n", stats.TotalFiles)
	cmd.Printf("Successful: %d\n", stats.Successful)
	cmd.Printf("Failed:     %d\n", stats.Failed)
	cmd.Printf("Chunks:     %d\n", stats.TotalChunks)
}
