package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Generation limits.
const (
	// NoContextSentinel replaces the context block when nothing was retrieved.
	NoContextSentinel = "No relevant context found."

	maxHistoryTurns      = 6
	maxFollowUps         = 3
	followUpContextChars = 1000
	followUpAnswerChars  = 500
)

var (
	answerOptions = driven.ChatOptions{
		MaxTokens:   1024,
		Temperature: 0.3,
		TopP:        0.9,
	}
	followUpOptions = driven.ChatOptions{
		MaxTokens:   300,
		Temperature: 0.5,
		TopP:        0.8,
	}

	listMarker = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s*`)
)

// Generator turns retrieved context into an answer with the language model.
type Generator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	owner   string
}

// NewGenerator creates a generator. A nil llm makes every answer the apology.
func NewGenerator(llm driven.LLMService, prompts driven.PromptStore, owner string) *Generator {
	if owner == "" {
		owner = domain.DefaultOwnerName
	}
	return &Generator{
		llm:     llm,
		prompts: prompts,
		owner:   owner,
	}
}

// SetPromptStore implements driven.PromptStoreAware.
func (g *Generator) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// Answer asks the model to answer query from chunks, followed by a second
// call for follow-up questions. A failed answer call yields the apology
// text with no sources; a failed follow-up call only drops the follow-ups.
func (g *Generator) Answer(
	ctx context.Context,
	query string,
	chunks []domain.SearchResult,
	history []domain.ChatTurn,
	classification domain.QueryClassification,
) domain.Answer {
	formatted := FormatContext(chunks)

	text, err := g.answer(ctx, query, formatted, history)
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		return domain.Answer{
			Text: domain.ApologyMessage,
			Err:  err,
		}
	}

	followUps, err := g.followUps(ctx, query, text, formatted)
	if err != nil {
		logger.Warn("Follow-up generation failed: %v", err)
	}

	sources := make([]domain.Source, len(chunks))
	for i, c := range chunks {
		sources[i] = domain.SourceFromResult(c)
	}

	return domain.Answer{
		Text:           text,
		Sources:        sources,
		FollowUps:      followUps,
		ContextChunks:  len(chunks),
		Classification: classification,
	}
}

func (g *Generator) answer(
	ctx context.Context, query, formatted string, history []domain.ChatTurn,
) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrLLMUnavailable)
	}

	tmpl, err := g.template(driven.PromptAnswer)
	if err != nil {
		return "", err
	}
	prompt := g.render(tmpl, formatted, query, "")

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	messages := make([]driven.ChatMessage, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, driven.ChatMessage{Role: turn.Role.String(), Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: prompt})

	logger.Debug("Generating answer: %d history turns, %d prompt chars", len(history), len(prompt))
	text, err := g.llm.Chat(ctx, messages, answerOptions)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	return text, nil
}

func (g *Generator) followUps(ctx context.Context, query, answer, formatted string) ([]string, error) {
	tmpl, err := g.template(driven.PromptFollowUp)
	if err != nil {
		return nil, err
	}
	prompt := g.render(tmpl, truncateRunes(formatted, followUpContextChars), query,
		truncateRunes(answer, followUpAnswerChars))

	reply, err := g.llm.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, followUpOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: follow-ups: %w", domain.ErrGeneration, err)
	}
	return ParseFollowUps(reply), nil
}

// template loads a named prompt template.
func (g *Generator) template(name string) (string, error) {
	if g.prompts == nil {
		return "", fmt.Errorf("%w: prompt store not configured", domain.ErrGeneration)
	}
	tmpl, err := g.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("%w: load prompt %s: %w", domain.ErrGeneration, name, err)
	}
	return tmpl, nil
}

// render fills the placeholders in one pass, so values are never re-expanded.
func (g *Generator) render(tmpl, contextText, question, response string) string {
	return strings.NewReplacer(
		"{owner}", g.owner,
		"{context}", contextText,
		"{question}", question,
		"{response}", response,
	).Replace(tmpl)
}

// FormatContext renders chunks as numbered source blocks.
func FormatContext(chunks []domain.SearchResult) string {
	if len(chunks) == 0 {
		return NoContextSentinel
	}

	blocks := make([]string, len(chunks))
	for i, c := range chunks {
		blocks[i] = fmt.Sprintf("[Source %d: %s - %s (Relevance: %.3f)]\n%s",
			i+1, orUnknown(c.Metadata.Filename), orUnknown(c.Metadata.Category), c.Score, c.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// ParseFollowUps extracts at most three questions from a model reply.
// Candidate lines start with a list marker or end with a question mark;
// after the marker is stripped only questions are kept.
func ParseFollowUps(reply string) []string {
	var questions []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !listMarker.MatchString(line) && !strings.HasSuffix(line, "?") {
			continue
		}
		q := strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if q == "" || !strings.HasSuffix(q, "?") {
			continue
		}
		questions = append(questions, q)
		if len(questions) == maxFollowUps {
			break
		}
	}
	return questions
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
