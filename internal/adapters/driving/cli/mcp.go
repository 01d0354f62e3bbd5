package cli

import (
	"github.com/spf13/cobra"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
and question the portfolio.

Tools:
  search_portfolio - semantic search with category and technology filters
  ask_portfolio    - answer a question with sources, optionally in a session
  portfolio_stats  - chunk counts per collection

Resources:
  portfolio://stats                       - the same statistics as JSON
  portfolio://sessions/{sessionId}/history - messages of a chat session

By default the server communicates over stdio. Use --http to serve the
streamable HTTP transport instead.

Examples:
  # Stdio mode (for desktop assistants)
  portfolio mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  portfolio mcp serve --http :8080`,
	Args:        cobra.NoArgs,
	Annotations: requiresLLM(),
	RunE:        runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "HTTP listen address (empty = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	ports := &mcp.Ports{
		Search:  searchService,
		Chat:    chatService,
		Index:   indexService,
		Version: version,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		cmd.PrintErrf("MCP server listening on http://%s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}

	return server.Run(cmd.Context())
}
