// Package cli is the command-line driving adapter of the portfolio assistant.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rishinpoolat/portfolio/internal/connectors/filesystem"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driving"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// version is set at build time via -ldflags or SetVersion.
var version = "dev"

// Command annotations.
const (
	// annotationNoServices marks commands that run without the service graph.
	annotationNoServices = "portfolio/no-services"

	// annotationRequiresLLM marks commands that fail fast without an LLM.
	annotationRequiresLLM = "portfolio/requires-llm"

	// annotationSettingsOnly marks commands that only read or write settings.
	annotationSettingsOnly = "portfolio/settings-only"
)

// Classifier labels queries.
type Classifier interface {
	Classify(query string) domain.QueryClassification
}

// Watcher reports settled changes under the portfolio tree.
type Watcher interface {
	Watch(ctx context.Context, debounce time.Duration) (<-chan []filesystem.Change, error)
}

// Options are the global flags handed to the service factory.
type Options struct {
	ConfigDir  string
	Verbose    bool
	RequireLLM bool

	// SettingsOnly asks for the settings service alone; stores and AI
	// clients are not opened.
	SettingsOnly bool
}

// Services is the service graph the commands run against.
type Services struct {
	Settings   driving.SettingsService
	Index      driving.IndexService
	Search     driving.SearchService
	Chat       driving.ChatService
	Classifier Classifier
	Watcher    Watcher
	App        *domain.AppSettings

	// Close releases stores and clients. May be nil.
	Close func()
}

// Factory builds the service graph.
type Factory func(ctx context.Context, opts Options) (*Services, error)

// Global flags.
var (
	configDir string
	verbose   bool
)

// Services used by the commands. Set by the factory, or directly in tests.
var (
	settingsService driving.SettingsService
	indexService    driving.IndexService
	searchService   driving.SearchService
	chatService     driving.ChatService
	queryClassifier Classifier
	portfolioWatch  Watcher
	appSettings     *domain.AppSettings
)

var (
	factory      Factory
	closeService func()
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Chat with a markdown portfolio",
	Long: `Portfolio indexes a directory of markdown files describing someone's
projects, education, work experience, certifications and hackathons, and answers
questions about them with retrieval-augmented generation.

Serve it over HTTP or MCP, chat in the terminal, or search directly.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.portfolio)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command and servers.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command, building services through f.
func Execute(ctx context.Context, f Factory) error {
	factory = f
	defer func() {
		if closeService != nil {
			closeService()
			closeService = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// loadServices builds the service graph for commands that need it.
// Without a factory the package-level services are used as they are.
func loadServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if factory == nil || cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}

	svcs, err := factory(cmd.Context(), Options{
		ConfigDir:    configDir,
		Verbose:      verbose,
		RequireLLM:   cmd.Annotations[annotationRequiresLLM] == "true",
		SettingsOnly: cmd.Annotations[annotationSettingsOnly] == "true",
	})
	if err != nil {
		return err
	}
	useServices(svcs)
	return nil
}

func useServices(s *Services) {
	settingsService = s.Settings
	indexService = s.Index
	searchService = s.Search
	chatService = s.Chat
	queryClassifier = s.Classifier
	portfolioWatch = s.Watcher
	appSettings = s.App
	closeService = s.Close
}

func requiresLLM() map[string]string {
	return map[string]string{annotationRequiresLLM: "true"}
}

func settingsOnly() map[string]string {
	return map[string]string{annotationSettingsOnly: "true"}
}

func noServices() map[string]string {
	return map[string]string{annotationNoServices: "true"}
}

// ownerName is the portfolio owner for display.
func ownerName() string {
	if appSettings != nil && appSettings.Portfolio.OwnerName != "" {
		return appSettings.Portfolio.OwnerName
	}
	return domain.DefaultOwnerName
}
