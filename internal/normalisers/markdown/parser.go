// Package markdown parses portfolio markdown files with optional YAML front matter.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

const (
	delimiter       = "---"
	keyTitle        = "title"
	keyTechnologies = "technologies"
	listSeparator   = ", "
)

// Parser handles markdown documents with front matter.
type Parser struct{}

// New creates a new markdown parser.
func New() *Parser {
	return &Parser{}
}

// Parse converts a raw markdown file into a document.
// The category argument is authoritative; a category key in the front
// matter is kept as an extra field only.
func (p *Parser) Parse(_ context.Context, raw *domain.RawDocument, category string) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(raw.Content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrProcessing, raw.Path)
	}

	fm, body, err := SplitFrontMatter(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProcessing, raw.Path, err)
	}

	filename := filepath.Base(raw.Path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	title := fm.Title
	if title == "" {
		title = stem
	}

	return &domain.Document{
		Path:         raw.Path,
		Filename:     filename,
		Stem:         stem,
		Category:     category,
		Title:        title,
		Body:         body,
		Technologies: domain.MergeTechnologies(fm.Technologies, domain.ScanTechnologies(body)),
		Size:         raw.Size,
		ModifiedAt:   raw.ModifiedAt,
		Extra:        fm.Extra,
	}, nil
}

// SplitFrontMatter separates a leading "---" delimited YAML block from the body.
// Content without front matter is returned whole as the body.
func SplitFrontMatter(content []byte) (domain.FrontMatter, string, error) {
	text := strings.TrimSpace(strings.ReplaceAll(string(content), "\r\n", "\n"))

	if !strings.HasPrefix(text, delimiter+"\n") {
		return domain.FrontMatter{}, text, nil
	}

	rest := text[len(delimiter)+1:]
	var header, body string
	switch {
	case strings.HasPrefix(rest, delimiter+"\n") || rest == delimiter:
		body = strings.TrimPrefix(rest, delimiter)
	default:
		end := strings.Index(rest, "\n"+delimiter+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+delimiter) {
				return domain.FrontMatter{}, text, nil
			}
			end = len(rest) - len(delimiter) - 1
		}
		header = rest[:end]
		body = rest[min(end+len(delimiter)+2, len(rest)):]
	}

	fm, err := parseHeader([]byte(header))
	if err != nil {
		return domain.FrontMatter{}, "", err
	}
	return fm, strings.TrimSpace(body), nil
}

func parseHeader(header []byte) (domain.FrontMatter, error) {
	var fm domain.FrontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return fm, nil
	}

	var values map[string]any
	if err := yaml.Unmarshal(header, &values); err != nil {
		return fm, fmt.Errorf("malformed front matter: %w", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := values[k]
		switch k {
		case keyTitle:
			fm.Title = scalarString(v)
		case keyTechnologies:
			fm.Technologies = technologyList(v)
		default:
			if fm.Extra == nil {
				fm.Extra = make(map[string]string)
			}
			fm.Extra[k] = flattenValue(v)
		}
	}
	return fm, nil
}

// technologyList accepts either a YAML list or a comma-separated string.
func technologyList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, scalarString(item))
		}
		return out
	case string:
		return domain.SplitTechnologies(t)
	case nil:
		return nil
	default:
		return []string{scalarString(t)}
	}
}

// flattenValue renders a front matter value as a single string.
// Lists are joined with ", ".
func flattenValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, scalarString(item))
		}
		return strings.Join(parts, listSeparator)
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
