package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rishinpoolat/portfolio/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and persist application settings.

Settings come from defaults, then the config file, then environment
variables (a .env file in the working directory is loaded first).`,
	Annotations: settingsOnly(),
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: settingsOnly(),
	RunE:        runSettingsShow,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to the config file",
	Long: `Writes the effective settings, environment overrides included, to the
config file so later runs do not depend on the environment.`,
	Annotations: settingsOnly(),
	RunE:        runSettingsInit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Portfolio]")
	cmd.Printf("  Owner: %s\n", settings.Portfolio.OwnerName)
	cmd.Printf("  Data path: %s\n", settings.Portfolio.DataPath)
	cmd.Printf("  Chunk size: %d (overlap %d)\n", settings.Chunking.Size, settings.Chunking.Overlap)
	cmd.Printf("  Retrieval k: %d\n", settings.Retrieval.K)
	cmd.Printf("  Session timeout: %s\n", settings.Session.Timeout)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", secretOrUnset(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", secretOrUnset(settings.LLM.APIKey))
	}
	if settings.LLM.RequestsPerMinute > 0 {
		cmd.Printf("  Requests per minute: %d\n", settings.LLM.RequestsPerMinute)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Vector Store]")
	cmd.Printf("  Backend: %s\n", settings.VectorStore.Backend)
	if settings.VectorStore.DSN != "" {
		cmd.Printf("  DSN: %s\n", services.MaskSecret(settings.VectorStore.DSN))
	} else {
		cmd.Printf("  Path: %s\n", settings.VectorStore.Path)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s:%d\n", settings.Server.Host, settings.Server.Port)
	cmd.Printf("  Log level: %s\n", settings.LogLevel)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}

func secretOrUnset(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return services.MaskSecret(secret)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
