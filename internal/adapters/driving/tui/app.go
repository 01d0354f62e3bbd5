package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui/components/input"
	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui/components/status"
	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui/keymap"
	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui/messages"
	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui/styles"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// entry is one rendered transcript item.
type entry struct {
	role        domain.Role
	text        string
	sources     []domain.Source
	suggestions []string
	degraded    bool
}

// App is the chat TUI following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	transcript viewport.Model
	input      *input.ChatInput
	spinner    spinner.Model
	statusBar  *status.Bar

	entries   []entry
	sessionID string
	turns     int
	busy      bool

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Assistant

	a := &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		transcript: viewport.New(80, 20),
		input:      input.NewChatInput(s),
		spinner:    sp,
		statusBar:  status.NewBar(s, km),
		width:      80,
		height:     24,
	}
	a.refreshTranscript()
	return a, nil
}

// WithContext sets the context turns run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithSession continues an existing session.
func (a *App) WithSession(id string) *App {
	a.sessionID = id
	a.statusBar.SetSession(id, 0)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("portfolio chat"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.TurnRequested:
		return a, a.startTurn(msg.Message)

	case messages.TurnCompleted:
		a.finishTurn(msg.Result)
		return a, nil

	case messages.SessionReset:
		a.reset()
		return a, nil

	case messages.ErrorOccurred:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Send):
		text := a.input.Value()
		if text == "" || a.busy {
			return a, nil
		}
		a.input.Reset()
		return a, a.startTurn(text)

	case keymap.Matches(key, a.keymap.NewSession):
		if a.busy {
			return a, nil
		}
		a.reset()
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollUp):
		a.transcript.SetYOffset(a.transcript.YOffset - a.transcript.Height/2)
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollDown):
		a.transcript.SetYOffset(a.transcript.YOffset + a.transcript.Height/2)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// startTurn records the user message and runs the turn in the background.
func (a *App) startTurn(text string) tea.Cmd {
	a.entries = append(a.entries, entry{role: domain.RoleUser, text: text})
	a.busy = true
	a.statusBar.SetState(status.StateThinking)
	a.refreshTranscript()

	chat := a.ports.Chat
	ctx := a.ctx
	sessionID := a.sessionID
	ask := func() tea.Msg {
		return messages.TurnCompleted{Result: chat.HandleTurn(ctx, text, sessionID)}
	}
	return tea.Batch(ask, a.spinner.Tick)
}

func (a *App) finishTurn(result domain.TurnResult) {
	a.busy = false
	a.turns++
	if result.SessionID != "" {
		a.sessionID = result.SessionID
	}

	a.entries = append(a.entries, entry{
		role:        domain.RoleAssistant,
		text:        result.Response,
		sources:     result.Sources,
		suggestions: result.SuggestedQuestions,
		degraded:    result.Err != nil,
	})

	if result.Err != nil {
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(result.Err.Error())
	} else {
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("")
	}
	a.statusBar.SetSession(a.sessionID, a.turns)
	a.refreshTranscript()
}

func (a *App) reset() {
	a.entries = nil
	a.sessionID = ""
	a.turns = 0
	a.statusBar.Clear()
	a.refreshTranscript()
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.input.SetWidth(width)
	a.statusBar.SetWidth(width)

	// header, blank line, spinner line, status bar
	chrome := 4 + a.input.Height()
	a.transcript.Width = width
	a.transcript.Height = max(height-chrome, 3)
	a.refreshTranscript()
}

func (a *App) refreshTranscript() {
	a.transcript.SetContent(a.renderTranscript())
	a.transcript.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.entries) == 0 {
		return a.styles.Muted.Render("Ask anything about the portfolio. Suggestions will appear after each answer.")
	}

	body := a.styles.Normal.Width(max(a.width-2, 20))
	var b strings.Builder
	for i, e := range a.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if e.role == domain.RoleUser {
			b.WriteString(a.styles.User.Render("You"))
		} else {
			b.WriteString(a.styles.Assistant.Render("Assistant"))
		}
		b.WriteString("\n")

		if e.degraded {
			b.WriteString(a.styles.Error.Render(e.text))
		} else {
			b.WriteString(body.Render(e.text))
		}

		for _, src := range e.sources {
			b.WriteString("\n")
			b.WriteString(a.styles.Source.Render(fmt.Sprintf(
				"[%s] %s (%.2f)", src.Category, src.Filename, domain.ClampScore(src.RelevanceScore))))
		}
		for _, q := range e.suggestions {
			b.WriteString("\n")
			b.WriteString(a.styles.Suggestion.Render("→ " + q))
		}
	}
	return b.String()
}

// View implements tea.Model.
func (a *App) View() string {
	title := "Portfolio assistant"
	if a.ports.Owner != "" {
		title = fmt.Sprintf("%s's portfolio assistant", a.ports.Owner)
	}

	thinking := ""
	if a.busy {
		thinking = a.spinner.View() + a.styles.Muted.Render(" thinking")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render(title),
		"",
		a.transcript.View(),
		thinking,
		a.input.View(),
		a.statusBar.View(),
	)
}

// SessionID returns the current session, empty before the first turn.
func (a *App) SessionID() string {
	return a.sessionID
}

// Busy reports whether a turn is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// Turns returns the number of completed turns.
func (a *App) Turns() int {
	return a.turns
}
