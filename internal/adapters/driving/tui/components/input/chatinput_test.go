package input

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatInput(t *testing.T) {
	in := NewChatInput(nil)

	require.NotNil(t, in)
	assert.True(t, in.Focused())
	assert.Empty(t, in.Value())
	assert.Equal(t, 4, in.Height())
}

func TestChatInput_Typing(t *testing.T) {
	in := NewChatInput(nil)

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")})
	assert.Equal(t, "hello", in.Value())

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "hello", in.Value(), "enter does not insert a newline")
}

func TestChatInput_ValueIsTrimmed(t *testing.T) {
	in := NewChatInput(nil)
	in.SetValue("  what did Ada build?  ")
	assert.Equal(t, "what did Ada build?", in.Value())

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestChatInput_CharLimit(t *testing.T) {
	in := NewChatInput(nil)
	in.SetValue(strings.Repeat("a", MaxMessageLength+10))
	assert.Len(t, in.Value(), MaxMessageLength)
}

func TestChatInput_FocusAndWidth(t *testing.T) {
	in := NewChatInput(nil)

	in.Blur()
	assert.False(t, in.Focused())
	in.Focus()
	assert.True(t, in.Focused())

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.NotEmpty(t, in.View())
}
