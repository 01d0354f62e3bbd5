package driving

import (
	"context"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// ChatService runs conversational turns and exposes session information.
type ChatService interface {
	// HandleTurn answers message within a session, creating one when
	// sessionID is empty, unknown or expired. It always returns a result;
	// degraded turns carry the apology text and a non-nil Err.
	HandleTurn(ctx context.Context, message, sessionID string) domain.TurnResult

	// SessionStats summarises one session.
	SessionStats(ctx context.Context, sessionID string) (*domain.SessionStats, error)

	// AllSessionsStats summarises every active session.
	AllSessionsStats(ctx context.Context) domain.AllSessionsStats

	// History returns the most recent messages of a session.
	History(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// SearchConversations finds messages containing query, in one session
	// or across all when sessionID is empty.
	SearchConversations(ctx context.Context, query, sessionID string) []domain.ConversationHit

	// Export returns a full copy of a session.
	Export(ctx context.Context, sessionID string) (*domain.Session, error)

	// Summary describes what a session has been about.
	Summary(ctx context.Context, sessionID string) (string, error)

	// CleanupExpired removes expired sessions.
	CleanupExpired(ctx context.Context) int
}
