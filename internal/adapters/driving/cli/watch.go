package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rishinpoolat/portfolio/internal/connectors/filesystem"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-index portfolio files as they change",
	Long: `Watches the category directories and re-indexes markdown files when
they are written, removing their chunks when they are deleted. Runs until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce, "wait for changes to settle")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	if portfolioWatch == nil {
		return errors.New("watcher not configured")
	}

	ctx := cmd.Context()
	changes, err := portfolioWatch.Watch(ctx, watchDebounce)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	cmd.Println("Watching portfolio for changes (Ctrl+C to stop)")
	for batch := range changes {
		applyChanges(ctx, cmd, batch)
	}
	return nil
}

// applyChanges re-indexes or removes each changed file. Failures are
// reported and do not stop the watch.
func applyChanges(ctx context.Context, cmd *cobra.Command, batch []filesystem.Change) {
	for _, c := range batch {
		switch c.Type {
		case filesystem.ChangeDeleted:
			n, err := indexService.RemoveFile(ctx, c.Path)
			if err != nil {
				logger.Warn("Cannot remove %s: %v", c.Path, err)
				continue
			}
			cmd.Printf("removed  %s (%d chunks)\n", c.Path, n)
		default:
			n, err := indexService.IndexFile(ctx, c.Path)
			if err != nil {
				logger.Warn("Cannot index %s: %v", c.Path, err)
				continue
			}
			cmd.Printf("indexed  %s (%d chunks)\n", c.Path, n)
		}
	}
}
