package rest

import (
	"time"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// Wire formats. Relevance scores are clamped to [0, 1] here and nowhere
// earlier.

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query        string   `json:"query" validate:"required,max=1000"`
	Category     string   `json:"category,omitempty"`
	Limit        *int     `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
	Technologies []string `json:"technologies,omitempty" validate:"omitempty,dive,required"`
}

// SourceDocument is a citation.
type SourceDocument struct {
	Filename       string   `json:"filename"`
	Category       string   `json:"category"`
	RelevanceScore float64  `json:"relevance_score"`
	FilePath       string   `json:"file_path"`
	ChunkID        string   `json:"chunk_id"`
	Technologies   []string `json:"technologies"`
}

// QueryClassification is the classification of a query.
type QueryClassification struct {
	Categories   []string `json:"categories"`
	Technologies []string `json:"technologies"`
	IntentType   string   `json:"intent_type"`
	Confidence   float64  `json:"confidence"`
}

// SessionContext is what a session has touched so far.
type SessionContext struct {
	TopicsDiscussed       []string `json:"topics_discussed"`
	TechnologiesMentioned []string `json:"technologies_mentioned"`
	CategoriesExplored    []string `json:"categories_explored"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Response            string              `json:"response"`
	Sources             []SourceDocument    `json:"sources"`
	SuggestedQuestions  []string            `json:"suggested_questions"`
	SessionID           string              `json:"session_id"`
	ResponseTime        float64             `json:"response_time"`
	SessionContext      SessionContext      `json:"session_context"`
	QueryClassification QueryClassification `json:"query_classification"`
}

// SearchResult is one search hit.
type SearchResult struct {
	Document       string         `json:"document"`
	Metadata       map[string]any `json:"metadata"`
	RelevanceScore float64        `json:"relevance_score"`
}

// SearchResponse is the reply to POST /search.
type SearchResponse struct {
	Results             []SearchResult      `json:"results"`
	TotalResults        int                 `json:"total_results"`
	QueryTime           float64             `json:"query_time"`
	QueryClassification QueryClassification `json:"query_classification"`
}

// DatabaseStats is the reply to GET /stats.
type DatabaseStats struct {
	Collections    map[string]int `json:"collections"`
	TotalDocuments int            `json:"total_documents"`
	Categories     []string       `json:"categories"`
}

// IndexStats reports an indexing run.
type IndexStats struct {
	TotalFiles  int `json:"total_files"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	TotalChunks int `json:"total_chunks"`
}

// RefreshResponse is the reply to POST /refresh.
type RefreshResponse struct {
	Message     string     `json:"message"`
	Stats       IndexStats `json:"stats"`
	RefreshTime float64    `json:"refresh_time"`
}

// HealthResponse is the reply to GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Version     string            `json:"version"`
	Services    map[string]string `json:"services"`
	Collections map[string]int    `json:"collections,omitempty"`
}

// SessionStats summarises one session.
type SessionStats struct {
	SessionID         string         `json:"session_id"`
	CreatedAt         string         `json:"created_at"`
	LastActivity      string         `json:"last_activity"`
	DurationSeconds   float64        `json:"duration_seconds"`
	TotalMessages     int            `json:"total_messages"`
	UserMessages      int            `json:"user_messages"`
	AssistantMessages int            `json:"assistant_messages"`
	Context           SessionContext `json:"context"`
}

// CountEntry is a name and how many sessions mention it.
type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AllSessionsStats summarises every active session.
type AllSessionsStats struct {
	ActiveSessions            int          `json:"active_sessions"`
	TotalMessages             int          `json:"total_messages"`
	TopCategories             []CountEntry `json:"top_categories"`
	TopTechnologies           []CountEntry `json:"top_technologies"`
	SessionTimeoutHours       float64      `json:"session_timeout_hours"`
	AverageMessagesPerSession float64      `json:"average_messages_per_session"`
}

// Message is one conversation entry.
type Message struct {
	Role          string               `json:"role"`
	Content       string               `json:"content"`
	Timestamp     string               `json:"timestamp"`
	Sources       []SourceDocument     `json:"sources,omitempty"`
	ContextChunks int                  `json:"context_chunks,omitempty"`
	Query         *QueryClassification `json:"query_classification,omitempty"`
}

// HistoryResponse is the reply to GET /sessions/:id/history.
type HistoryResponse struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// SessionExport is a whole session.
type SessionExport struct {
	SessionID    string         `json:"session_id"`
	CreatedAt    string         `json:"created_at"`
	LastActivity string         `json:"last_activity"`
	Context      SessionContext `json:"context"`
	Messages     []Message      `json:"messages"`
}

// SummaryResponse is the reply to GET /sessions/:id/summary.
type SummaryResponse struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
}

// ConversationHit is a message matched by conversation search.
type ConversationHit struct {
	SessionID string  `json:"session_id"`
	Message   Message `json:"message"`
}

// ConversationSearchResponse is the reply to GET /sessions/search.
type ConversationSearchResponse struct {
	Query   string            `json:"query"`
	Results []ConversationHit `json:"results"`
	Count   int               `json:"count"`
}

// CleanupResponse is the reply to POST /sessions/cleanup.
type CleanupResponse struct {
	Removed int `json:"removed"`
}

// NewSourceDocuments converts citations.
func NewSourceDocuments(sources []domain.Source) []SourceDocument {
	out := make([]SourceDocument, len(sources))
	for i, s := range sources {
		techs := s.Technologies
		if techs == nil {
			techs = []string{}
		}
		out[i] = SourceDocument{
			Filename:       s.Filename,
			Category:       s.Category,
			RelevanceScore: domain.ClampScore(s.RelevanceScore),
			FilePath:       s.FilePath,
			ChunkID:        s.ChunkID,
			Technologies:   techs,
		}
	}
	return out
}

// NewQueryClassification converts a classification.
func NewQueryClassification(c domain.QueryClassification) QueryClassification {
	return QueryClassification{
		Categories:   categoryNames(c.Categories),
		Technologies: nonNil(c.Technologies),
		IntentType:   string(c.Intent),
		Confidence:   domain.ClampScore(c.Confidence),
	}
}

// NewSessionContext converts a session context.
func NewSessionContext(c domain.SessionContext) SessionContext {
	return SessionContext{
		TopicsDiscussed:       nonNil(c.TopicsDiscussed),
		TechnologiesMentioned: nonNil(c.TechnologiesMentioned),
		CategoriesExplored:    categoryNames(c.CategoriesExplored),
	}
}

// NewChatResponse converts a turn result.
func NewChatResponse(r domain.TurnResult) ChatResponse {
	return ChatResponse{
		Response:            r.Response,
		Sources:             NewSourceDocuments(r.Sources),
		SuggestedQuestions:  nonNil(r.SuggestedQuestions),
		SessionID:           r.SessionID,
		ResponseTime:        r.ResponseTime.Seconds(),
		SessionContext:      NewSessionContext(r.SessionContext),
		QueryClassification: NewQueryClassification(r.Classification),
	}
}

// NewSearchResults converts search hits.
func NewSearchResults(results []domain.SearchResult) []SearchResult {
	out := make([]SearchResult, len(results))
	for i, r := range results {
		meta := make(map[string]any, len(r.Metadata.Extra)+8)
		for k, v := range r.Metadata.Extra {
			meta[k] = v
		}
		meta[domain.MetaTitle] = r.Metadata.Title
		meta[domain.MetaCategory] = r.Metadata.Category
		meta[domain.MetaFilename] = r.Metadata.Filename
		meta[domain.MetaFilePath] = r.Metadata.FilePath
		meta[domain.MetaTechnologies] = nonNil(r.Metadata.Technologies)
		meta[domain.MetaChunkID] = r.ID
		meta[domain.MetaChunkIndex] = r.Metadata.ChunkIndex
		meta[domain.MetaTotalChunks] = r.Metadata.TotalChunks

		out[i] = SearchResult{
			Document:       r.Text,
			Metadata:       meta,
			RelevanceScore: domain.ClampScore(r.Score),
		}
	}
	return out
}

// NewDatabaseStats converts store statistics.
func NewDatabaseStats(s domain.StoreStats) DatabaseStats {
	return DatabaseStats{
		Collections:    collectionCounts(s.Collections),
		TotalDocuments: s.TotalDocuments,
		Categories:     categoryNames(s.Categories),
	}
}

// NewIndexStats converts indexing statistics.
func NewIndexStats(s domain.IndexStats) IndexStats {
	return IndexStats{
		TotalFiles:  s.TotalFiles,
		Successful:  s.Successful,
		Failed:      s.Failed,
		TotalChunks: s.TotalChunks,
	}
}

// NewSessionStats converts one session's statistics.
func NewSessionStats(s *domain.SessionStats) SessionStats {
	return SessionStats{
		SessionID:         s.SessionID,
		CreatedAt:         timestamp(s.CreatedAt),
		LastActivity:      timestamp(s.LastActivity),
		DurationSeconds:   s.SessionDuration.Seconds(),
		TotalMessages:     s.TotalMessages,
		UserMessages:      s.UserMessages,
		AssistantMessages: s.AssistantMessages,
		Context: NewSessionContext(domain.SessionContext{
			TopicsDiscussed:       s.TopicsDiscussed,
			TechnologiesMentioned: s.TechnologiesMentioned,
			CategoriesExplored:    s.CategoriesExplored,
		}),
	}
}

// NewAllSessionsStats converts aggregate session statistics.
func NewAllSessionsStats(s domain.AllSessionsStats) AllSessionsStats {
	out := AllSessionsStats{
		ActiveSessions:      s.ActiveSessions,
		TotalMessages:       s.TotalMessages,
		TopCategories:       countEntries(s.TopCategories),
		TopTechnologies:     countEntries(s.TopTechnologies),
		SessionTimeoutHours: s.TimeoutHours,
	}
	if s.ActiveSessions > 0 {
		out.AverageMessagesPerSession = float64(s.TotalMessages) / float64(s.ActiveSessions)
	}
	return out
}

// NewMessages converts conversation messages.
func NewMessages(msgs []domain.Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = Message{
			Role:          m.Role.String(),
			Content:       m.Content,
			Timestamp:     timestamp(m.Timestamp),
			ContextChunks: m.Metadata.ContextChunks,
		}
		if len(m.Metadata.Sources) > 0 {
			out[i].Sources = NewSourceDocuments(m.Metadata.Sources)
		}
		if m.Metadata.Classification != nil {
			c := NewQueryClassification(*m.Metadata.Classification)
			out[i].Query = &c
		}
	}
	return out
}

// NewSessionExport converts a whole session.
func NewSessionExport(s *domain.Session) SessionExport {
	return SessionExport{
		SessionID:    s.ID,
		CreatedAt:    timestamp(s.CreatedAt),
		LastActivity: timestamp(s.LastActivity),
		Context:      NewSessionContext(s.Context),
		Messages:     NewMessages(s.Messages),
	}
}

// NewConversationHits converts conversation search hits.
func NewConversationHits(hits []domain.ConversationHit) []ConversationHit {
	out := make([]ConversationHit, len(hits))
	for i, h := range hits {
		out[i] = ConversationHit{
			SessionID: h.SessionID,
			Message:   NewMessages([]domain.Message{h.Message})[0],
		}
	}
	return out
}

func categoryNames(cats []domain.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.String()
	}
	return out
}

func collectionCounts(counts map[domain.Collection]int) map[string]int {
	out := make(map[string]int, len(counts))
	for c, n := range counts {
		out[c.String()] = n
	}
	return out
}

func countEntries(entries []domain.CountEntry) []CountEntry {
	out := make([]CountEntry, len(entries))
	for i, e := range entries {
		out[i] = CountEntry{Name: e.Name, Count: e.Count}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
