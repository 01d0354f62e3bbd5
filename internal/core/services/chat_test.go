package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

func newTestChatService(t *testing.T, llm *mockLLM) (*ChatService, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	sessions := newTestSessionService(clock)
	retrieval := NewRetrievalService(seededStore(t), newMockEmbedder(), nil, 5)
	generator := NewGenerator(llm, testPrompts(), "Ada")
	return NewChatService(sessions, retrieval, generator), clock
}

func TestChatService_HandleTurn(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{replies: []string{
		"He built a chat server.",
		"1. What stack did it use?\n2. Was it deployed?",
		"It used Node.js.",
		"- Where is it hosted?",
	}}
	chat, _ := newTestChatService(t, llm)

	first := chat.HandleTurn(ctx, "What react projects has he built", "")
	require.NoError(t, first.Err)
	assert.Equal(t, "s1", first.SessionID)
	assert.Equal(t, "He built a chat server.", first.Response)
	assert.Equal(t, []string{"What stack did it use?", "Was it deployed?"}, first.SuggestedQuestions)
	require.Len(t, first.Sources, 3)
	assert.Equal(t, "projects_chat_0", first.Sources[0].ChunkID)
	assert.Equal(t, []domain.Category{domain.CategoryProjects}, first.Classification.Categories)
	assert.Equal(t, []domain.Category{domain.CategoryProjects}, first.SessionContext.CategoriesExplored)
	assert.Equal(t, []string{"react"}, first.SessionContext.TechnologiesMentioned)
	assert.GreaterOrEqual(t, int64(first.ResponseTime), int64(0))

	second := chat.HandleTurn(ctx, "Which database did it use?", first.SessionID)
	require.NoError(t, second.Err)
	assert.Equal(t, "s1", second.SessionID)
	assert.Equal(t, "It used Node.js.", second.Response)

	// The second answer request carries the first exchange as history.
	require.Len(t, llm.requests, 4)
	answerRequest := llm.requests[2]
	require.Len(t, answerRequest, 3)
	assert.Equal(t, "What react projects has he built", answerRequest[0].Content)
	assert.Equal(t, "He built a chat server.", answerRequest[1].Content)
	assert.Contains(t, answerRequest[2].Content, "Question: Which database did it use?")

	history, err := chat.History(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assistant := history[1]
	assert.Equal(t, domain.RoleAssistant, assistant.Role)
	assert.Equal(t, 3, assistant.Metadata.ContextChunks)
	require.NotNil(t, assistant.Metadata.Classification)
	assert.Len(t, assistant.Metadata.Sources, 3)
}

func TestChatService_UnknownSessionStartsNew(t *testing.T) {
	chat, _ := newTestChatService(t, &mockLLM{replies: []string{"Hi."}})

	result := chat.HandleTurn(context.Background(), "Hello", "no-such-session")
	require.NoError(t, result.Err)
	assert.Equal(t, "s1", result.SessionID)
}

func TestChatService_GenerationFailure(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{
		replies: []string{"", "Recovered answer.", "1. Next?"},
		errs:    []error{errors.New("rate limited")},
	}
	chat, _ := newTestChatService(t, llm)

	failed := chat.HandleTurn(ctx, "Tell me about his projects", "")
	assert.ErrorIs(t, failed.Err, domain.ErrGeneration)
	assert.Equal(t, domain.ApologyMessage, failed.Response)
	assert.Empty(t, failed.Sources)
	assert.Empty(t, failed.SuggestedQuestions)
	assert.Equal(t, "s1", failed.SessionID)

	history, err := chat.History(ctx, failed.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ApologyMessage, history[1].Content)
	assert.Nil(t, history[1].Metadata.Classification)

	recovered := chat.HandleTurn(ctx, "Try again", failed.SessionID)
	require.NoError(t, recovered.Err)
	assert.Equal(t, "Recovered answer.", recovered.Response)
	assert.Equal(t, []string{"Next?"}, recovered.SuggestedQuestions)
}

func TestChatService_RetrievalFailureStillAnswers(t *testing.T) {
	clock := newFakeClock()
	emb := newMockEmbedder()
	emb.err = errors.New("embedder down")
	llm := &mockLLM{replies: []string{"I have no details on that."}}
	chat := NewChatService(
		newTestSessionService(clock),
		NewRetrievalService(seededStore(t), emb, nil, 5),
		NewGenerator(llm, testPrompts(), "Ada"),
	)

	result := chat.HandleTurn(context.Background(), "What projects?", "")
	require.NoError(t, result.Err)
	assert.Equal(t, "I have no details on that.", result.Response)
	assert.Empty(t, result.Sources)
	require.NotEmpty(t, llm.requests)
	assert.Contains(t, llm.requests[0][0].Content, NoContextSentinel)
}

func TestPriorTurns(t *testing.T) {
	sess := domain.NewSession("s", newFakeClock().Now())
	assert.Nil(t, priorTurns(sess))

	for i := 0; i < 12; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		sess.Messages = append(sess.Messages, domain.Message{Role: role, Content: string(rune('a' + i))})
	}

	turns := priorTurns(sess)
	require.Len(t, turns, chatHistoryWindow-1)
	assert.Equal(t, "c", turns[0].Content)
	assert.Equal(t, "k", turns[len(turns)-1].Content)
}
