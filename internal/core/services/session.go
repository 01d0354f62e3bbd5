package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Session reporting limits.
const (
	DefaultHistoryLimit   = 50
	maxConversationHits   = 50
	summaryMessageWindow  = 10
	topCategoriesReported = 5
	topTechnologiesShown  = 10
)

// SessionService records conversations and derives context and statistics
// from them. Per-session serialisation is provided by the session store.
type SessionService struct {
	store      driven.SessionStore
	classifier *Classifier
	owner      string
	now        func() time.Time
}

// SessionServiceOption configures the session service.
type SessionServiceOption func(*SessionService)

// WithMessageClock overrides the time source for message timestamps.
func WithMessageClock(now func() time.Time) SessionServiceOption {
	return func(s *SessionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOwnerName sets the portfolio owner used in summaries.
func WithOwnerName(name string) SessionServiceOption {
	return func(s *SessionService) {
		if name != "" {
			s.owner = name
		}
	}
}

// NewSessionService creates a session service over store.
func NewSessionService(store driven.SessionStore, classifier *Classifier, opts ...SessionServiceOption) *SessionService {
	if classifier == nil {
		classifier = NewClassifier()
	}
	s := &SessionService{
		store:      store,
		classifier: classifier,
		owner:      domain.DefaultOwnerName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the live session with id, or a new one when id is
// empty, unknown or expired.
func (s *SessionService) Resolve(ctx context.Context, id string) (*domain.Session, error) {
	if id != "" {
		sess, err := s.store.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.Debug("Session %s not found, starting a new one", id)
	}

	sess, err := s.store.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	logger.Info("Created new chat session: %s", sess.ID)
	return sess, nil
}

// AppendUser records a user message and merges what it mentions into the
// session context. The message classification is returned with the
// updated session.
func (s *SessionService) AppendUser(
	ctx context.Context, id, content string,
) (*domain.Session, domain.QueryClassification, error) {
	classification := s.classifier.Classify(content)
	topics := TopicsIn(content)

	sess, err := s.store.Update(ctx, id, func(sess *domain.Session) error {
		sess.Messages = append(sess.Messages, domain.Message{
			Role:      domain.RoleUser,
			Content:   content,
			Timestamp: s.now(),
		})
		sess.Context.AddCategories(classification.Categories...)
		sess.Context.AddTechnologies(classification.Technologies...)
		sess.Context.AddTopics(topics...)
		return nil
	})
	if err != nil {
		return nil, classification, err
	}
	return sess, classification, nil
}

// AppendAssistant records an assistant message.
func (s *SessionService) AppendAssistant(
	ctx context.Context, id, content string, meta domain.MessageMetadata,
) (*domain.Session, error) {
	return s.store.Update(ctx, id, func(sess *domain.Session) error {
		sess.Messages = append(sess.Messages, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   content,
			Timestamp: s.now(),
			Metadata:  meta,
		})
		return nil
	})
}

// SessionStats summarises one session.
func (s *SessionService) SessionStats(ctx context.Context, sessionID string) (*domain.SessionStats, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stats := &domain.SessionStats{
		SessionID:             sess.ID,
		CreatedAt:             sess.CreatedAt,
		LastActivity:          sess.LastActivity,
		TotalMessages:         len(sess.Messages),
		TopicsDiscussed:       sess.Context.TopicsDiscussed,
		TechnologiesMentioned: sess.Context.TechnologiesMentioned,
		CategoriesExplored:    sess.Context.CategoriesExplored,
		SessionDuration:       sess.LastActivity.Sub(sess.CreatedAt),
	}
	for _, m := range sess.Messages {
		switch m.Role {
		case domain.RoleUser:
			stats.UserMessages++
		case domain.RoleAssistant:
			stats.AssistantMessages++
		}
	}
	return stats, nil
}

// AllSessionsStats removes expired sessions, then aggregates the rest.
// Each session counts once per category or technology it touched.
func (s *SessionService) AllSessionsStats(ctx context.Context) domain.AllSessionsStats {
	s.store.CleanupExpired(ctx)
	sessions := s.store.Snapshot(ctx)

	categories := newCounter()
	technologies := newCounter()
	total := 0
	for _, sess := range sessions {
		total += len(sess.Messages)
		for _, c := range sess.Context.CategoriesExplored {
			categories.add(c.String())
		}
		for _, t := range sess.Context.TechnologiesMentioned {
			technologies.add(t)
		}
	}

	return domain.AllSessionsStats{
		ActiveSessions:  len(sessions),
		TotalMessages:   total,
		TopCategories:   categories.top(topCategoriesReported),
		TopTechnologies: technologies.top(topTechnologiesShown),
		TimeoutHours:    s.store.Timeout().Hours(),
	}
}

// History returns the last limit messages of a session, all of them when
// limit is not positive.
func (s *SessionService) History(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.RecentMessages(limit), nil
}

// SearchConversations returns messages containing query, ignoring case.
// With a session ID only that session is searched.
func (s *SessionService) SearchConversations(ctx context.Context, query, sessionID string) []domain.ConversationHit {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var hits []domain.ConversationHit
	for _, sess := range s.store.Snapshot(ctx) {
		if sessionID != "" && sess.ID != sessionID {
			continue
		}
		for _, m := range sess.Messages {
			if !strings.Contains(strings.ToLower(m.Content), needle) {
				continue
			}
			hits = append(hits, domain.ConversationHit{SessionID: sess.ID, Message: m})
			if len(hits) == maxConversationHits {
				return hits
			}
		}
	}
	return hits
}

// Export returns a full copy of a session.
func (s *SessionService) Export(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// Summary names the categories touched by the last ten messages.
// A session without messages has an empty summary.
func (s *SessionService) Summary(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(sess.Messages) == 0 {
		return "", nil
	}

	recent := sess.RecentMessages(summaryMessageWindow)
	parts := make([]string, len(recent))
	for i, m := range recent {
		parts[i] = m.Content
	}

	cats := CategoriesMentioned(strings.Join(parts, " "))
	if len(cats) == 0 {
		return fmt.Sprintf("General conversation about %s's portfolio", s.owner), nil
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return "Conversation context: Discussion about " + strings.Join(names, ", "), nil
}

// CleanupExpired removes expired sessions.
func (s *SessionService) CleanupExpired(ctx context.Context) int {
	n := s.store.CleanupExpired(ctx)
	if n > 0 {
		logger.Info("Removed %d expired sessions", n)
	}
	return n
}

// counter tallies names, remembering first-seen order for ties.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) top(n int) []domain.CountEntry {
	entries := make([]domain.CountEntry, len(c.order))
	for i, name := range c.order {
		entries[i] = domain.CountEntry{Name: name, Count: c.counts[name]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
