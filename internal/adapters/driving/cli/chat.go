package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rishinpoolat/portfolio/internal/adapters/driving/tui"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

var (
	chatSession string
	chatPlain   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat about the portfolio in the terminal",
	Long: `Starts a conversation with the portfolio assistant.

In a terminal this opens the interactive chat UI:
  Enter   - Send message
  Ctrl+N  - Start a new conversation
  PgUp/Dn - Scroll the transcript
  Esc     - Quit

When input is piped, each line is sent as a message and the answers are
printed. Type "exit" or "quit" to stop.`,
	Args:        cobra.NoArgs,
	Annotations: requiresLLM(),
	RunE:        runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "continue an existing session")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "line mode even in a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if !chatPlain && isInteractive(cmd.InOrStdin()) {
		return runChatTUI(cmd)
	}
	return runChatLines(cmd, cmd.InOrStdin())
}

// isInteractive reports whether in is the process terminal.
func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok || f != os.Stdin {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func runChatTUI(cmd *cobra.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Chat: chatService, Owner: ownerName()})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if chatSession != "" {
		app.WithSession(chatSession)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runChatLines(cmd *cobra.Command, in io.Reader) error {
	sessionID := chatSession
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result := chatService.HandleTurn(cmd.Context(), line, sessionID)
		if result.SessionID != "" {
			sessionID = result.SessionID
		}
		printTurn(cmd, result)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if sessionID != "" {
		cmd.Printf("Session: %s\n", sessionID)
	}
	return nil
}

func printTurn(cmd *cobra.Command, r domain.TurnResult) {
	cmd.Println(r.Response)
	if r.Err != nil {
		cmd.PrintErrf("warning: %v\n", r.Err)
	}
	if len(r.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, s := range r.Sources {
			cmd.Printf("  - [%s] %s (%.2f)\n", s.Category, s.Filename, domain.ClampScore(s.RelevanceScore))
		}
	}
	if len(r.SuggestedQuestions) > 0 {
		cmd.Println()
		cmd.Println("You might also ask:")
		for _, q := range r.SuggestedQuestions {
			cmd.Printf("  - %s\n", q)
		}
	}
	cmd.Println()
}
