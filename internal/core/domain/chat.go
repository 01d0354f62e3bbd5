package domain

import "time"

// ApologyMessage is the reply used when an answer could not be generated.
const ApologyMessage = "I apologize, but I encountered an error while processing your question. Please try again."

// Source is a citation attached to an answer.
type Source struct {
	Filename       string
	Category       string
	RelevanceScore float64
	FilePath       string
	ChunkID        string
	Technologies   []string
}

// SourceFromResult builds a citation from a retrieved chunk.
func SourceFromResult(r SearchResult) Source {
	return Source{
		Filename:       r.Metadata.Filename,
		Category:       r.Metadata.Category,
		RelevanceScore: r.Score,
		FilePath:       r.Metadata.FilePath,
		ChunkID:        r.ID,
		Technologies:   r.Metadata.Technologies,
	}
}

// ChatTurn is a prior message handed to the generator as history.
type ChatTurn struct {
	Role    Role
	Content string
}

// Answer is the generator output.
type Answer struct {
	// Text is the answer, or ApologyMessage when generation failed.
	Text string

	// Sources has one entry per context chunk, in context order.
	Sources []Source

	// FollowUps holds at most three suggested questions.
	FollowUps []string

	// ContextChunks is the number of chunks the answer was built from.
	ContextChunks int

	// Classification is the classification of the query.
	Classification QueryClassification

	// Err is set when the answer is the apology fallback.
	Err error
}

// TurnResult is the outcome of one chat turn.
type TurnResult struct {
	// Response is the assistant reply.
	Response string

	// Sources are the citations of the reply.
	Sources []Source

	// SuggestedQuestions are follow-up suggestions.
	SuggestedQuestions []string

	// SessionID is the session the turn was recorded in.
	SessionID string

	// ResponseTime is the wall-clock duration of the turn.
	ResponseTime time.Duration

	// SessionContext is the session context after the turn.
	SessionContext SessionContext

	// Classification is the classification of the user message.
	Classification QueryClassification

	// Err is set when the reply is a degraded fallback.
	Err error
}
