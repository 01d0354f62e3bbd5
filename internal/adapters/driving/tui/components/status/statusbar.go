// Package status provides the status bar of the chat TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui/keymap"
	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui/styles"
)

// State represents what the chat is doing.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
)

// sessionIDShown is how many characters of the session ID are displayed.
const sessionIDShown = 8

// Bar displays the chat state, the session and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	sessionID string
	turns     int
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var parts []string
	switch s.state {
	case StateThinking:
		parts = append(parts, s.styles.Muted.Render("Thinking..."))
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render("Error: "+s.message))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	default:
		parts = append(parts, s.styles.Muted.Render("Ready"))
	}

	if s.sessionID != "" {
		id := s.sessionID
		if len(id) > sessionIDShown {
			id = id[:sessionIDShown]
		}
		parts = append(parts, s.styles.Muted.Render(fmt.Sprintf("session %s", id)))
	}
	if s.turns > 0 {
		parts = append(parts, s.styles.Muted.Render(fmt.Sprintf("%d turns", s.turns)))
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetSession records the session and how many turns it has had.
func (s *Bar) SetSession(id string, turns int) {
	s.sessionID = id
	s.turns = turns
}

// SessionID returns the displayed session.
func (s *Bar) SessionID() string {
	return s.sessionID
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to its initial state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.sessionID = ""
	s.turns = 0
}
