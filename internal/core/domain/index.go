package domain

// IndexStats summarises an indexing run.
type IndexStats struct {
	// TotalFiles is the number of markdown files discovered.
	TotalFiles int

	// Successful is the number of files indexed.
	Successful int

	// Failed is the number of files that could not be indexed.
	Failed int

	// TotalChunks is the chunk count across category collections.
	TotalChunks int
}

// StoreStats summarises vector store contents.
type StoreStats struct {
	// Collections maps each collection to its chunk count.
	Collections map[Collection]int

	// TotalDocuments is the chunk count across category collections.
	TotalDocuments int

	// Categories lists the category collections.
	Categories []Category
}

// HealthStatus reports whether the backing services are reachable.
type HealthStatus struct {
	// VectorStore is true when the store answered a count.
	VectorStore bool

	// Embedding is true when the embedding provider answered a ping.
	Embedding bool

	// LLM is true when the language model answered a ping.
	LLM bool

	// EmbeddingModel is the configured embedding model.
	EmbeddingModel string

	// LLMModel is the configured language model.
	LLMModel string

	// Collections maps each collection to its chunk count.
	Collections map[Collection]int
}

// Healthy reports whether every dependency is reachable.
func (h HealthStatus) Healthy() bool {
	return h.VectorStore && h.Embedding && h.LLM
}
