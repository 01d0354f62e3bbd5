package domain

import "time"

// Role identifies who sent a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// MessageMetadata carries per-turn details attached to an assistant message.
type MessageMetadata struct {
	// Sources are the chunks cited by the answer.
	Sources []Source

	// ContextChunks is the number of chunks handed to the model.
	ContextChunks int

	// Classification is the query classification of the turn, if any.
	Classification *QueryClassification
}

// Message is a single conversation entry.
type Message struct {
	// Role is who sent the message.
	Role Role

	// Content is the message text.
	Content string

	// Timestamp is when the message was appended.
	Timestamp time.Time

	// Metadata is set on assistant messages.
	Metadata MessageMetadata
}

// SessionContext accumulates what a conversation has touched.
// Each list holds unique values in first-seen order.
type SessionContext struct {
	// TopicsDiscussed are topic keywords seen in user messages.
	TopicsDiscussed []string

	// TechnologiesMentioned are technologies detected in user messages.
	TechnologiesMentioned []string

	// CategoriesExplored are categories classified from user messages.
	CategoriesExplored []Category
}

// AddTopics merges topics into the context.
func (c *SessionContext) AddTopics(topics ...string) {
	c.TopicsDiscussed = appendUnique(c.TopicsDiscussed, topics...)
}

// AddTechnologies merges technologies into the context.
func (c *SessionContext) AddTechnologies(techs ...string) {
	c.TechnologiesMentioned = appendUnique(c.TechnologiesMentioned, techs...)
}

// AddCategories merges categories into the context.
func (c *SessionContext) AddCategories(cats ...Category) {
	for _, cat := range cats {
		if !containsCategory(c.CategoriesExplored, cat) {
			c.CategoriesExplored = append(c.CategoriesExplored, cat)
		}
	}
}

// Clone returns a deep copy.
func (c SessionContext) Clone() SessionContext {
	return SessionContext{
		TopicsDiscussed:       append([]string(nil), c.TopicsDiscussed...),
		TechnologiesMentioned: append([]string(nil), c.TechnologiesMentioned...),
		CategoriesExplored:    append([]Category(nil), c.CategoriesExplored...),
	}
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, have := range list {
			if have == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}

func containsCategory(list []Category, c Category) bool {
	for _, have := range list {
		if have == c {
			return true
		}
	}
	return false
}

// Session is one conversation and its accumulated context.
type Session struct {
	// ID is the opaque session identifier.
	ID string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// LastActivity is refreshed only when the session is mutated.
	LastActivity time.Time

	// Messages is the ordered message log.
	Messages []Message

	// Context is the accumulated conversation context.
	Context SessionContext
}

// NewSession creates an empty session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Touch moves LastActivity forward. It never moves backwards.
func (s *Session) Touch(now time.Time) {
	if now.After(s.LastActivity) {
		s.LastActivity = now
	}
}

// Expired reports whether the session has been idle longer than timeout.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}

// RecentMessages returns at most n trailing messages.
func (s *Session) RecentMessages(n int) []Message {
	if n <= 0 || n >= len(s.Messages) {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// Clone returns a deep copy safe to hand to callers.
func (s *Session) Clone() *Session {
	out := &Session{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		Messages:     make([]Message, len(s.Messages)),
		Context:      s.Context.Clone(),
	}
	for i, m := range s.Messages {
		out.Messages[i] = m
		out.Messages[i].Metadata.Sources = append([]Source(nil), m.Metadata.Sources...)
		if m.Metadata.Classification != nil {
			c := *m.Metadata.Classification
			out.Messages[i].Metadata.Classification = &c
		}
	}
	return out
}

// SessionStats summarises one session.
type SessionStats struct {
	SessionID             string
	CreatedAt             time.Time
	LastActivity          time.Time
	TotalMessages         int
	UserMessages          int
	AssistantMessages     int
	TopicsDiscussed       []string
	TechnologiesMentioned []string
	CategoriesExplored    []Category
	SessionDuration       time.Duration
}

// CountEntry is a name with an occurrence count.
type CountEntry struct {
	Name  string
	Count int
}

// AllSessionsStats summarises every active session.
type AllSessionsStats struct {
	// ActiveSessions is the number of unexpired sessions.
	ActiveSessions int

	// TotalMessages is the message count across active sessions.
	TotalMessages int

	// TopCategories are the five most explored categories.
	TopCategories []CountEntry

	// TopTechnologies are the ten most mentioned technologies.
	TopTechnologies []CountEntry

	// TimeoutHours is the session timeout expressed in hours.
	TimeoutHours float64
}

// ConversationHit is a message matched by conversation search.
type ConversationHit struct {
	SessionID string
	Message   Message
}
