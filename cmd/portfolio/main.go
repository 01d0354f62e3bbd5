// Command portfolio serves retrieval-augmented answers about a markdown
// portfolio over HTTP, MCP and the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/cli"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	err := cli.Execute(ctx, buildServices)

	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
