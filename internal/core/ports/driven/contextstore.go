package driven

import (
	"context"

	"github.com/worklens/worklens/internal/core/domain"
)

// ContextStore persists canonical Contexts.
type ContextStore interface {
	// Upsert inserts or updates a Context keyed by
	// (owner, source, source_id). Mutable fields (title, body,
	// attributes, external_url, updated_at) are overwritten on update;
	// immutable source kinds skip the update path once a row exists.
	Upsert(ctx context.Context, record *domain.Context) error

	// GetByKey retrieves one Context, or domain.ErrNotFound.
	GetByKey(ctx context.Context, key domain.ContextKey) (*domain.Context, error)

	// List returns Contexts matching the filter, ordered by updated_at
	// descending.
	List(ctx context.Context, filter domain.ContextFilter) ([]domain.Context, error)

	// CountBySource returns per-source record counts for an owner.
	CountBySource(ctx context.Context, owner string) (map[domain.SourceType]int, error)
}
