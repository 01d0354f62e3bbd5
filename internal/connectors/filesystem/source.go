// Package filesystem reads the portfolio category tree from local disk
// and watches it for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Verify interface compliance.
var _ driven.DocumentSource = (*Source)(nil)

const markdownExt = ".md"

// Source lists markdown files under <root>/<category>/.
type Source struct {
	root       string
	categories []domain.Category
}

// Option configures the source.
type Option func(*Source)

// WithCategories restricts the category directories that are scanned.
func WithCategories(cats ...domain.Category) Option {
	return func(s *Source) {
		if len(cats) > 0 {
			s.categories = cats
		}
	}
}

// New creates a source rooted at the portfolio data path.
func New(root string, opts ...Option) *Source {
	s := &Source{
		root:       root,
		categories: domain.AllCategories(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the data path.
func (s *Source) Root() string {
	return s.root
}

// List returns every markdown file in the category directories, ordered by
// category and then by name. Missing directories are logged and skipped.
func (s *Source) List(ctx context.Context) ([]domain.SourceFile, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("portfolio data path %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("portfolio data path %s: %w: not a directory", s.root, domain.ErrInvalidInput)
	}

	var files []domain.SourceFile
	for _, cat := range s.categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := filepath.Join(s.root, cat.String())
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Category directory not found: %s", dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read category %s: %w", cat, err)
		}

		var names []string
		for _, e := range entries {
			if e.IsDir() || !isMarkdown(e.Name()) || isHidden(e.Name()) {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			files = append(files, domain.SourceFile{
				Path:     filepath.Join(dir, name),
				Category: cat.String(),
			})
		}
		logger.Debug("Found %d markdown files in %s", len(names), dir)
	}
	return files, nil
}

// Read loads a file from disk.
func (s *Source) Read(_ context.Context, path string) (*domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProcessing, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProcessing, err)
	}
	return &domain.RawDocument{
		Path:       path,
		Content:    content,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// CategoryOf returns the category directory a path belongs to.
// The second value is false for paths outside <root>/<category>/*.md.
func (s *Source) CategoryOf(path string) (string, bool) {
	if !isMarkdown(path) || isHidden(filepath.Base(path)) {
		return "", false
	}
	dir := filepath.Dir(path)
	if filepath.Clean(filepath.Dir(dir)) != filepath.Clean(s.root) {
		return "", false
	}
	cat := domain.Category(filepath.Base(dir))
	for _, c := range s.categories {
		if c == cat {
			return cat.String(), true
		}
	}
	return "", false
}

func isMarkdown(name string) bool {
	return filepath.Ext(name) == markdownExt
}

// isHidden reports whether a file name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
