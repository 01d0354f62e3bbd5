package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
}

func TestDefaultTheme_SpeakersAreDistinct(t *testing.T) {
	theme := DefaultTheme()
	assert.NotEqual(t, theme.Primary, theme.Secondary)
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	styles := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"Title":      styles.Title,
		"Normal":     styles.Normal,
		"Muted":      styles.Muted,
		"User":       styles.User,
		"Assistant":  styles.Assistant,
		"Source":     styles.Source,
		"Suggestion": styles.Suggestion,
		"Error":      styles.Error,
		"InputField": styles.InputField,
		"StatusBar":  styles.StatusBar,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
		assert.NotEmpty(t, style.Render("test text"), name)
	}
}
