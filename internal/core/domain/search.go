package domain

// SearchOptions configures an explicit search.
type SearchOptions struct {
	// Category scopes the search to one category collection.
	// Empty searches the unified collection.
	Category Category

	// Limit is the maximum number of results.
	Limit int

	// Technologies keeps only results carrying at least one of these.
	Technologies []string
}

// SearchResult is one nearest-neighbour match.
type SearchResult struct {
	// ID is the chunk identifier.
	ID string

	// Text is the chunk content.
	Text string

	// Metadata is the chunk metadata.
	Metadata ChunkMetadata

	// Distance is the cosine distance to the query vector.
	Distance float64

	// Score is 1 - Distance. It is not clamped and may be negative.
	Score float64
}

// NewSearchResult builds a result from a chunk and its distance to the query.
func NewSearchResult(id, text string, meta ChunkMetadata, distance float64) SearchResult {
	return SearchResult{
		ID:       id,
		Text:     text,
		Metadata: meta,
		Distance: distance,
		Score:    1 - distance,
	}
}

// HasAnyTechnology reports whether the result carries one of techs.
func (r SearchResult) HasAnyTechnology(techs []string) bool {
	want := MergeTechnologies(techs)
	for _, have := range MergeTechnologies(r.Metadata.Technologies) {
		for _, w := range want {
			if have == w {
				return true
			}
		}
	}
	return false
}

// ClampScore bounds a relevance score to [0, 1].
// Applied at the outer surfaces only; ranking uses raw scores.
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// RetrievalResult is the outcome of context retrieval.
// Chunks is always usable; Err records why it may be empty.
type RetrievalResult struct {
	// Chunks is the ranked, deduplicated context set.
	Chunks []SearchResult

	// Classification is the classification retrieval was based on.
	Classification QueryClassification

	// Err is set when retrieval degraded to an empty context.
	Err error
}

// Empty reports whether no context was retrieved.
func (r RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}
