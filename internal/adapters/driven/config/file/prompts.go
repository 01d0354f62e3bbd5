package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves prompt templates from <dir>/<name>.txt. Missing or
// unreadable files fall back to the embedded defaults, which are also
// written out on first use so they can be edited.
type PromptStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string]string

	initOnce sync.Once
	initErr  error
}

// defaultPrompts are the embedded templates.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: `You are an intelligent assistant that helps people learn about {owner}'s professional portfolio.
You have access to detailed information about his projects, education, work experience, certifications, and hackathon participation.

Guidelines:
- Provide accurate, helpful responses based on the provided context
- If information isn't available in the context, say so clearly
- Focus on technical details when discussing projects and experience
- Maintain a professional but conversational tone
- Always cite sources when possible
- For technology-specific queries, filter and highlight relevant technologies

Context: {context}

Question: {question}

Please provide a comprehensive answer based on the context above.`,

	driven.PromptFollowUp: `Based on the conversation about {owner}'s portfolio, suggest 3 relevant follow-up questions that would help the user learn more about his background, projects, or experience.

Context: {context}
User Question: {question}
Assistant Response: {response}

Generate exactly 3 follow-up questions that are:
1. Specific and actionable
2. Related to the current topic
3. Help explore different aspects of his portfolio

Follow-up questions:`,
}

// DefaultPrompt returns the embedded template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a prompt store over dir, ~/.portfolio/prompts
// when dir is empty. Nothing is read or written until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".portfolio", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the template for name.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.writeDefaults)

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.read(name)
	if err != nil {
		if def, ok := defaultPrompts[name]; ok {
			if s.initErr != nil {
				logger.Debug("Prompt directory unusable, using default %q: %v", name, s.initErr)
			}
			return def, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()
	return prompt, nil
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// writeDefaults creates the directory, any missing default templates and
// the README. Existing files are never overwritten.
func (s *PromptStore) writeDefaults() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	files := map[string]string{"README.md": promptReadme}
	for name, content := range defaultPrompts {
		files[name+".txt"] = content
	}
	for name, content := range files {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			s.initErr = fmt.Errorf("write %s: %w", name, err)
			return
		}
	}
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

const promptReadme = `# Portfolio Prompts

Templates used by the portfolio assistant. Edit them to change how answers
and follow-up questions are written; changes apply after a restart.

- answer.txt: answers a question from retrieved portfolio context
- follow_up.txt: suggests three follow-up questions

Placeholders: {owner}, {context}, {question}, and {response} (follow_up
only). Unused placeholders are simply absent from the final prompt.
`
