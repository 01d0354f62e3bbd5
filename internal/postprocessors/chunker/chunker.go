// Package chunker provides a boundary-aware, overlapping text chunker.
package chunker

import (
	"strings"

	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.TextChunker = (*Chunker)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// boundaries are the cut points tried from the window end backwards,
// highest priority first.
var boundaries = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune(", "),
	[]rune(" "),
}

// Chunker splits text into windows of at most chunkSize characters,
// preferring paragraph, line, sentence, clause and word boundaries.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Name returns the chunker name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split returns the trimmed, non-empty chunks of text.
// Lengths are measured in characters, not bytes.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.chunkSize {
		return []string{strings.TrimSpace(text)}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = appendTrimmed(chunks, runes[start:])
			break
		}

		cut := c.boundary(runes, start, end)
		chunks = appendTrimmed(chunks, runes[start:cut])

		if next := cut - c.overlap; next > start {
			start = next
		} else {
			start = cut
		}
	}

	return chunks
}

// boundary finds the best cut in (start, end], falling back to a hard cut at end.
func (c *Chunker) boundary(runes []rune, start, end int) int {
	for _, sep := range boundaries {
		if i := lastIndex(runes, sep, start, end); i > start {
			return i
		}
	}
	return end
}

// lastIndex returns the highest i in [start, end-len(sep)] where sep occurs, or -1.
func lastIndex(runes, sep []rune, start, end int) int {
	for i := end - len(sep); i >= start; i-- {
		match := true
		for j, r := range sep {
			if runes[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func appendTrimmed(chunks []string, piece []rune) []string {
	if s := strings.TrimSpace(string(piece)); s != "" {
		return append(chunks, s)
	}
	return chunks
}
