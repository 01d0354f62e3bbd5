package rest

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/services"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

const defaultSearchLimit = 10

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
	statusAvailable = "available"
)

var errUnavailable = fiber.NewError(fiber.StatusServiceUnavailable, "service not configured")

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Portfolio assistant API",
		"version": s.ports.Version,
		"docs":    APIPrefix + "/health",
	})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if err := validate(req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" {
		return NewValidationError(map[string]string{"message": "field is required"})
	}

	result := s.ports.Chat.HandleTurn(c.UserContext(), req.Message, req.SessionID)
	if result.Err != nil {
		logger.Warn("Chat turn in session %s degraded: %v", result.SessionID, result.Err)
	}
	return c.JSON(NewChatResponse(result))
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	if s.ports.Search == nil {
		return errUnavailable
	}

	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if err := validate(req); err != nil {
		return err
	}

	opts := domain.SearchOptions{
		Limit:        defaultSearchLimit,
		Technologies: req.Technologies,
	}
	if req.Limit != nil {
		opts.Limit = *req.Limit
	}
	if req.Category != "" {
		cat, err := domain.ParseCategory(req.Category)
		if err != nil {
			return err
		}
		opts.Category = cat
	}

	start := s.now()
	results, err := s.ports.Search.Search(c.UserContext(), req.Query, opts)
	if err != nil {
		return err
	}

	var classification domain.QueryClassification
	if s.ports.Classifier != nil {
		classification = s.ports.Classifier.Classify(req.Query)
	}

	return c.JSON(SearchResponse{
		Results:             NewSearchResults(results),
		TotalResults:        len(results),
		QueryTime:           s.now().Sub(start).Seconds(),
		QueryClassification: NewQueryClassification(classification),
	})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	if s.ports.Index == nil {
		return errUnavailable
	}
	stats, err := s.ports.Index.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(NewDatabaseStats(stats))
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	if s.ports.Index == nil {
		return errUnavailable
	}

	start := s.now()
	stats, err := s.ports.Index.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(RefreshResponse{
		Message:     "Database refreshed successfully",
		Stats:       NewIndexStats(stats),
		RefreshTime: s.now().Sub(start).Seconds(),
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status:    statusDegraded,
		Timestamp: timestamp(s.now()),
		Version:   s.ports.Version,
		Services: map[string]string{
			"vector_database": statusUnhealthy,
			"embedding":       statusUnhealthy,
			"groq_api":        statusUnhealthy,
			"chat_service":    statusAvailable,
		},
	}
	if s.ports.Index == nil {
		return c.JSON(resp)
	}

	health := s.ports.Index.Health(c.UserContext())
	resp.Services["vector_database"] = serviceStatus(health.VectorStore)
	resp.Services["embedding"] = serviceStatus(health.Embedding)
	resp.Services["groq_api"] = serviceStatus(health.LLM)
	if health.Healthy() {
		resp.Status = statusHealthy
	}
	if len(health.Collections) > 0 {
		resp.Collections = collectionCounts(health.Collections)
	}
	return c.JSON(resp)
}

func (s *Server) handleAllSessionsStats(c *fiber.Ctx) error {
	return c.JSON(NewAllSessionsStats(s.ports.Chat.AllSessionsStats(c.UserContext())))
}

func (s *Server) handleSearchConversations(c *fiber.Ctx) error {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		return NewValidationError(map[string]string{"q": "field is required"})
	}

	hits := s.ports.Chat.SearchConversations(c.UserContext(), query, c.Query("session_id"))
	return c.JSON(ConversationSearchResponse{
		Query:   query,
		Results: NewConversationHits(hits),
		Count:   len(hits),
	})
}

func (s *Server) handleCleanup(c *fiber.Ctx) error {
	return c.JSON(CleanupResponse{Removed: s.ports.Chat.CleanupExpired(c.UserContext())})
}

func (s *Server) handleSessionStats(c *fiber.Ctx) error {
	stats, err := s.ports.Chat.SessionStats(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(NewSessionStats(stats))
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultHistoryLimit)
	if limit < 1 {
		return NewValidationError(map[string]string{"limit": "must be at least 1"})
	}

	id := c.Params("id")
	msgs, err := s.ports.Chat.History(c.UserContext(), id, limit)
	if err != nil {
		return err
	}
	return c.JSON(HistoryResponse{SessionID: id, Messages: NewMessages(msgs)})
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	sess, err := s.ports.Chat.Export(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(NewSessionExport(sess))
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	id := c.Params("id")
	summary, err := s.ports.Chat.Summary(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(SummaryResponse{SessionID: id, Summary: summary})
}

func serviceStatus(ok bool) string {
	if ok {
		return statusHealthy
	}
	return statusUnhealthy
}
