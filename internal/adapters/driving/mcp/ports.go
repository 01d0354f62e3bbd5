package mcp

import (
	"github.com/rishinpoolat/portfolio/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Chat answers questions and exposes sessions. Optional.
	Chat driving.ChatService

	// Index reports store statistics. Optional.
	Index driving.IndexService

	// Version is reported to clients during initialisation.
	Version string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
