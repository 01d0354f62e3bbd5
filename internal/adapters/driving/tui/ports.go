// Package tui provides an interactive terminal chat with the portfolio
// assistant. It is a driving adapter over the chat service.
package tui

import (
	"github.com/rishinpoolat/portfolio/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Chat answers messages.
	Chat driving.ChatService

	// Owner is shown in the header.
	Owner string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
