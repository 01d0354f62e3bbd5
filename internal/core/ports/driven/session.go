package driven

import (
	"context"
	"time"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// SessionStore keeps conversation sessions in memory.
//
// Sessions expire after the configured idle timeout. Expired sessions are
// removed lazily on access and by CleanupExpired.
type SessionStore interface {
	// Create starts a new empty session.
	Create(ctx context.Context) (*domain.Session, error)

	// Get returns a snapshot of a live session and refreshes its activity.
	// Returns domain.ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Update applies fn to a live session under that session's lock and
	// returns a snapshot taken after fn. Updates to the same session are
	// serialised; updates to different sessions are not.
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error)

	// CleanupExpired removes expired sessions and returns how many were removed.
	CleanupExpired(ctx context.Context) int

	// Snapshot returns copies of every live session.
	Snapshot(ctx context.Context) []*domain.Session

	// Timeout returns the idle timeout.
	Timeout() time.Duration
}
