// Package messages defines Bubbletea message types for the chat TUI.
package messages

import (
	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// TurnRequested asks the app to send a message.
type TurnRequested struct {
	Message string
}

// TurnCompleted carries the outcome of a turn back to the model.
// Degraded turns arrive here too, with Result.Err set.
type TurnCompleted struct {
	Result domain.TurnResult
}

// SessionReset is sent when the user starts a new conversation.
type SessionReset struct{}

// ErrorOccurred reports a failure outside a turn.
type ErrorOccurred struct {
	Err error
}
