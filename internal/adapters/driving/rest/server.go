// Package rest serves the portfolio assistant over HTTP.
package rest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rishinpoolat/portfolio/internal/logger"
)

// APIPrefix is the route prefix of every API endpoint.
const APIPrefix = "/api/v1"

// Server is the HTTP server.
type Server struct {
	app   *fiber.App
	ports Ports
	now   func() time.Time
}

// NewServer creates a server and registers its routes.
func NewServer(ports Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "portfolio",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	s := &Server{app: app, ports: ports, now: time.Now}

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(compress.New())
	app.Use(requestLogger)

	s.routes()
	return s, nil
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP API")
		return s.app.ShutdownWithTimeout(5 * time.Second)
	}
}

func (s *Server) routes() {
	s.app.Get("/", s.handleRoot)

	api := s.app.Group(APIPrefix)
	api.Post("/chat", s.handleChat)
	api.Post("/search", s.handleSearch)
	api.Get("/stats", s.handleStats)
	api.Post("/refresh", s.handleRefresh)
	api.Get("/health", s.handleHealth)

	// Static session routes first so :id does not capture them.
	api.Get("/sessions/stats", s.handleAllSessionsStats)
	api.Get("/sessions/search", s.handleSearchConversations)
	api.Post("/sessions/cleanup", s.handleCleanup)
	api.Get("/sessions/:id/stats", s.handleSessionStats)
	api.Get("/sessions/:id/history", s.handleHistory)
	api.Get("/sessions/:id/export", s.handleExport)
	api.Get("/sessions/:id/summary", s.handleSummary)
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logger.Debug("%s %s %d %s", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
	return err
}
