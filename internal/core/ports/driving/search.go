package driving

import (
	"context"

	"github.com/worklens/worklens/internal/core/domain"
)

// SearchService answers queries over the stored Contexts. It never touches
// the live providers.
type SearchService interface {
	// Search parses the free-form query into filters plus residual text,
	// executes a filtered read, ranks when a text term is present, and
	// highlights matched substrings in the returned titles and bodies.
	Search(ctx context.Context, owner, query string, limit int) (*domain.SearchResponse, error)
}

// StatsService summarises the stored record set.
type StatsService interface {
	// Stats returns total and per-source counts plus the last sync time.
	Stats(ctx context.Context, owner string) (*domain.Stats, error)
}
