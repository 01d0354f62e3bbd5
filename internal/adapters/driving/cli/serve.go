package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/rest"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// sessionCleanupInterval is how often expired sessions are swept while serving.
const sessionCleanupInterval = 10 * time.Minute

var (
	serveHost    string
	servePort    int
	serveNoIndex bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API under /api/v1.

The portfolio is indexed first when the vector store is empty, unless
--no-index is given. Expired chat sessions are swept periodically.`,
	Args:        cobra.NoArgs,
	Annotations: requiresLLM(),
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from settings)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from settings)")
	serveCmd.Flags().BoolVar(&serveNoIndex, "no-index", false, "do not index an empty store on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	server, err := rest.NewServer(rest.Ports{
		Chat:       chatService,
		Search:     searchService,
		Index:      indexService,
		Classifier: queryClassifier,
		Version:    version,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if !serveNoIndex {
		if err := indexIfEmpty(ctx); err != nil {
			logger.Warn("Initial indexing failed: %v", err)
		}
	}

	addr := listenAddr()
	cmd.Printf("HTTP API listening on http://%s%s\n", addr, rest.APIPrefix)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Listen(gctx, addr)
	})
	g.Go(func() error {
		sweepSessions(gctx)
		return nil
	})
	return g.Wait()
}

// indexIfEmpty indexes the portfolio when no chunks are stored yet.
func indexIfEmpty(ctx context.Context) error {
	if indexService == nil {
		return nil
	}
	stats, err := indexService.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.TotalDocuments > 0 {
		logger.Info("Vector store holds %d chunks", stats.TotalDocuments)
		return nil
	}
	_, err = indexService.IndexAll(ctx)
	return err
}

func sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			chatService.CleanupExpired(ctx)
		}
	}
}

// listenAddr resolves the address from flags, then settings.
func listenAddr() string {
	host, port := domain.DefaultServerHost, domain.DefaultServerPort
	if appSettings != nil {
		if appSettings.Server.Host != "" {
			host = appSettings.Server.Host
		}
		if appSettings.Server.Port > 0 {
			port = appSettings.Server.Port
		}
	}
	if serveHost != "" {
		host = serveHost
	}
	if servePort > 0 {
		port = servePort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// serverURL is the base URL a local client uses to reach the HTTP API.
func serverURL() string {
	host, port, err := net.SplitHostPort(listenAddr())
	if err != nil {
		return fmt.Sprintf("http://localhost:%d", domain.DefaultServerPort)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
