package services

import (
	"context"
	"time"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driving"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// chatHistoryWindow is how many trailing messages, the new one included,
// are considered for history.
const chatHistoryWindow = 10

// ChatService runs one conversational turn at a time per request:
// record, retrieve, generate, record.
type ChatService struct {
	*SessionService

	retrieval *RetrievalService
	generator *Generator
	clock     func() time.Time
}

// NewChatService creates a chat service.
func NewChatService(sessions *SessionService, retrieval *RetrievalService, generator *Generator) *ChatService {
	return &ChatService{
		SessionService: sessions,
		retrieval:      retrieval,
		generator:      generator,
		clock:          time.Now,
	}
}

// HandleTurn answers message in the given session.
//
// The turn always completes: a failed answer is recorded and returned as
// the apology text with Err set, and the session stays usable.
func (c *ChatService) HandleTurn(ctx context.Context, message, sessionID string) domain.TurnResult {
	start := c.clock()

	sess, err := c.Resolve(ctx, sessionID)
	if err != nil {
		logger.Error("Cannot start chat session: %v", err)
		return domain.TurnResult{
			Response:     domain.ApologyMessage,
			ResponseTime: c.clock().Sub(start),
			Err:          err,
		}
	}

	sess, _, err = c.AppendUser(ctx, sess.ID, message)
	if err != nil {
		// Expired between resolve and append; start over once.
		if sess, err = c.Resolve(ctx, ""); err == nil {
			sess, _, err = c.AppendUser(ctx, sess.ID, message)
		}
		if err != nil {
			logger.Error("Cannot record user message: %v", err)
			return domain.TurnResult{
				Response:     domain.ApologyMessage,
				ResponseTime: c.clock().Sub(start),
				Err:          err,
			}
		}
	}

	history := priorTurns(sess)

	retrieved := c.retrieval.Retrieve(ctx, message, c.retrieval.K())
	answer := c.generator.Answer(ctx, message, retrieved.Chunks, history, retrieved.Classification)

	var meta domain.MessageMetadata
	if answer.Err == nil {
		classification := answer.Classification
		meta = domain.MessageMetadata{
			Sources:        answer.Sources,
			ContextChunks:  answer.ContextChunks,
			Classification: &classification,
		}
	}

	if updated, err := c.AppendAssistant(ctx, sess.ID, answer.Text, meta); err != nil {
		logger.Warn("Cannot record assistant message in %s: %v", sess.ID, err)
	} else {
		sess = updated
	}

	return domain.TurnResult{
		Response:           answer.Text,
		Sources:            answer.Sources,
		SuggestedQuestions: answer.FollowUps,
		SessionID:          sess.ID,
		ResponseTime:       c.clock().Sub(start),
		SessionContext:     sess.Context.Clone(),
		Classification:     answer.Classification,
		Err:                answer.Err,
	}
}

// priorTurns maps the recent messages before the newest one to history turns.
func priorTurns(sess *domain.Session) []domain.ChatTurn {
	recent := sess.RecentMessages(chatHistoryWindow)
	if len(recent) == 0 {
		return nil
	}
	recent = recent[:len(recent)-1]

	turns := make([]domain.ChatTurn, len(recent))
	for i, m := range recent {
		turns[i] = domain.ChatTurn{Role: m.Role, Content: m.Content}
	}
	return turns
}
