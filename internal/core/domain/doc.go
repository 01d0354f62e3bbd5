// Package domain defines the core business entities for the portfolio assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Category and Collection: the content buckets of the vector store
//   - Document and Chunk: a parsed markdown file and its searchable pieces
//   - QueryClassification: what a user query is about
//   - Session and Message: the state of one conversation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
