package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for portfolio resources.
	uriScheme = "portfolio://"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Chunk counts per portfolio collection",
		MIMEType:    mimeJSON,
	}, s.handleStatsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}/history",
		Name:        "session-history",
		Description: "Messages of a chat session",
		MIMEType:    mimeJSON,
	}, s.handleHistoryResource)
}

// handleStatsResource returns the vector store statistics.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, stats)
}

// handleHistoryResource returns the messages of one session.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chat == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sessionID := extractSessionID(req.Params.URI)
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	msgs, err := s.ports.Chat.History(ctx, sessionID, 0)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	type messageInfo struct {
		Role      string `json:"role"`
		Content   string `json:"content"`
		Timestamp string `json:"timestamp"`
	}
	infos := make([]messageInfo, len(msgs))
	for i, m := range msgs {
		infos[i] = messageInfo{
			Role:      m.Role.String(),
			Content:   m.Content,
			Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like portfolio://sessions/{sessionId}/history.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"
	const suffix = "/history"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
