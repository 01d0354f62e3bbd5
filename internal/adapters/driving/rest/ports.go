package rest

import (
	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driving"
)

// Classifier labels a query for search responses.
type Classifier interface {
	Classify(query string) domain.QueryClassification
}

// Ports holds the services the HTTP server exposes.
type Ports struct {
	// Chat is required.
	Chat driving.ChatService

	// Search backs POST /search.
	Search driving.SearchService

	// Index backs stats, refresh and health.
	Index driving.IndexService

	// Classifier labels search queries. Optional.
	Classifier Classifier

	// Version is reported by the health and root endpoints.
	Version string
}

// Validate checks that the required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
