package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCategory indicates a category name outside the configured set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownCollection indicates a vector store collection that is not managed.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrConfiguration indicates a required setting is missing or invalid.
	// It is fatal at startup and never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrProcessing indicates a document could not be read or parsed.
	// The document is skipped and counted as failed.
	ErrProcessing = errors.New("processing error")

	// ErrRetrieval indicates the vector store could not serve a query.
	// Retrieval degrades to an empty context.
	ErrRetrieval = errors.New("retrieval error")

	// ErrGeneration indicates the language model call failed.
	// Generation degrades to a fixed apology.
	ErrGeneration = errors.New("generation error")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store could not be opened.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)
