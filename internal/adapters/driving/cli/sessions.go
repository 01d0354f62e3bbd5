package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/rest"
)

const sessionsRequestTimeout = 5 * time.Second

var (
	sessionsServer string
	sessionsJSON   bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show chat session statistics from a running server",
	Long: `Chat sessions live in the memory of the serving process, so this
command asks a running HTTP API for its session statistics.`,
	Args:        cobra.NoArgs,
	Annotations: noServices(),
	RunE:        runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsServer, "server", "", "HTTP API base URL (default from settings)")
	sessionsCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, _ []string) error {
	base := sessionsServer
	if base == "" {
		base = serverURL()
	}
	url := strings.TrimRight(base, "/") + rest.APIPrefix + "/sessions/stats"

	var stats rest.AllSessionsStats
	code, body, errs := fiber.Get(url).Timeout(sessionsRequestTimeout).Struct(&stats)
	if len(errs) > 0 {
		return fmt.Errorf("requesting %s: %w", url, errs[0])
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("requesting %s: status %d: %s", url, code, strings.TrimSpace(string(body)))
	}

	if sessionsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Active sessions:   %d\n", stats.ActiveSessions)
	cmd.Printf("Total messages:    %d\n", stats.TotalMessages)
	cmd.Printf("Avg per session:   %.1f\n", stats.AverageMessagesPerSession)
	cmd.Printf("Session timeout:   %.1fh\n", stats.SessionTimeoutHours)
	printCounts(cmd, "Top categories", stats.TopCategories)
	printCounts(cmd, "Top technologies", stats.TopTechnologies)
	return nil
}

func printCounts(cmd *cobra.Command, title string, entries []rest.CountEntry) {
	if len(entries) == 0 {
		return
	}
	cmd.Println()
	cmd.Printf("%s:\n", title)
	for _, e := range entries {
		cmd.Printf("  %-20s %d\n", e.Name, e.Count)
	}
}
