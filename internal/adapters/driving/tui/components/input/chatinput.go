// Package input provides the message box of the chat TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui/styles"
)

// MaxMessageLength matches the HTTP API limit.
const MaxMessageLength = 2000

// ChatInput wraps a bubbles textarea. Enter is left to the caller, so the
// box never inserts newlines.
type ChatInput struct {
	textarea textarea.Model
	styles   *styles.Styles
	width    int
}

// NewChatInput creates a new message box.
func NewChatInput(s *styles.Styles) *ChatInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about projects, experience, education..."
	ta.ShowLineNumbers = false
	ta.CharLimit = MaxMessageLength
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetHeight(2)
	ta.SetWidth(60)
	ta.Focus()

	return &ChatInput{
		textarea: ta,
		styles:   s,
		width:    60,
	}
}

// Init starts the cursor blinking.
func (c *ChatInput) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles input messages.
func (c *ChatInput) Update(msg tea.Msg) (*ChatInput, tea.Cmd) {
	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return c, cmd
}

// View renders the message box.
func (c *ChatInput) View() string {
	return c.styles.InputField.Render(c.textarea.View())
}

// Value returns the trimmed message.
func (c *ChatInput) Value() string {
	return strings.TrimSpace(c.textarea.Value())
}

// SetValue sets the message.
func (c *ChatInput) SetValue(value string) {
	c.textarea.SetValue(value)
}

// Focus sets focus on the box.
func (c *ChatInput) Focus() tea.Cmd {
	return c.textarea.Focus()
}

// Blur removes focus from the box.
func (c *ChatInput) Blur() {
	c.textarea.Blur()
}

// Focused returns whether the box is focused.
func (c *ChatInput) Focused() bool {
	return c.textarea.Focused()
}

// SetWidth sets the width of the box, border included.
func (c *ChatInput) SetWidth(width int) {
	c.width = width
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	c.textarea.SetWidth(inner)
}

// Width returns the current width.
func (c *ChatInput) Width() int {
	return c.width
}

// Height returns the rendered height.
func (c *ChatInput) Height() int {
	return c.textarea.Height() + 2
}

// Reset clears the box.
func (c *ChatInput) Reset() {
	c.textarea.Reset()
}
