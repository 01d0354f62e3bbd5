package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore keeps sessions in memory with lazy expiry.
//
// The registry lock guards the session map only. Each session has its own
// lock, so turns in different sessions never wait on each other.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
}

type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
	removed bool
}

// SessionOption configures the session store.
type SessionOption func(*SessionStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(gen func() string) SessionOption {
	return func(s *SessionStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewSessionStore creates a session store with the given idle timeout.
func NewSessionStore(timeout time.Duration, opts ...SessionOption) *SessionStore {
	if timeout <= 0 {
		timeout = domain.DefaultSessionTimeout
	}
	s := &SessionStore{
		sessions: make(map[string]*sessionEntry),
		timeout:  timeout,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timeout returns the idle timeout.
func (s *SessionStore) Timeout() time.Duration {
	return s.timeout
}

// Create starts a new empty session.
func (s *SessionStore) Create(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	if _, exists := s.sessions[id]; exists {
		return nil, fmt.Errorf("%w: session id %s already in use", domain.ErrInvalidInput, id)
	}
	sess := domain.NewSession(id, s.now())
	s.sessions[id] = &sessionEntry{session: sess}
	return sess.Clone(), nil
}

// Get returns a snapshot of a live session. It does not refresh activity.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.Update(ctx, id, nil)
}

// Update applies fn under the session lock and refreshes activity.
// A failing fn leaves the session unchanged. A nil fn is a read.
func (s *SessionStore) Update(_ context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := s.now()
	if entry.removed {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if entry.session.Expired(now, s.timeout) {
		s.evict(id, entry)
		return nil, fmt.Errorf("session %s expired: %w", id, domain.ErrNotFound)
	}

	if fn != nil {
		work := entry.session.Clone()
		if err := fn(work); err != nil {
			return nil, err
		}
		work.Touch(now)
		entry.session = work
	}
	return entry.session.Clone(), nil
}

// evict removes an entry whose lock is held by the caller.
func (s *SessionStore) evict(id string, entry *sessionEntry) {
	entry.removed = true
	s.mu.Lock()
	if s.sessions[id] == entry {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
}

// CleanupExpired removes every expired session.
func (s *SessionStore) CleanupExpired(_ context.Context) int {
	s.mu.RLock()
	entries := make(map[string]*sessionEntry, len(s.sessions))
	for id, e := range s.sessions {
		entries[id] = e
	}
	s.mu.RUnlock()

	now := s.now()
	removed := 0
	for id, e := range entries {
		e.mu.Lock()
		if !e.removed && e.session.Expired(now, s.timeout) {
			s.evict(id, e)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// Snapshot returns copies of every live session, oldest first.
// Expired sessions are skipped but not removed.
func (s *SessionStore) Snapshot(_ context.Context) []*domain.Session {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	now := s.now()
	out := make([]*domain.Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed && !e.session.Expired(now, s.timeout) {
			out = append(out, e.session.Clone())
		}
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
