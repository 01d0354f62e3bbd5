package driven

import (
	"context"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// DocumentSource enumerates and reads the portfolio markdown tree.
type DocumentSource interface {
	// List returns every markdown file under the category directories.
	// Missing category directories are skipped.
	List(ctx context.Context) ([]domain.SourceFile, error)

	// Read loads one file.
	Read(ctx context.Context, path string) (*domain.RawDocument, error)

	// Root returns the data path the source reads from.
	Root() string
}

// DocumentParser turns raw markdown into a Document.
type DocumentParser interface {
	// Parse splits front matter from the body and fills document metadata.
	// Returns domain.ErrProcessing for malformed front matter.
	Parse(ctx context.Context, raw *domain.RawDocument, category string) (*domain.Document, error)
}

// TextChunker splits text into bounded, overlapping pieces.
type TextChunker interface {
	// Split returns the chunks of text in order. Empty text yields none.
	Split(text string) []string
}
