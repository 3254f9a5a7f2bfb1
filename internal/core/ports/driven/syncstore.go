package driven

import (
	"context"

	"github.com/worklens/worklens/internal/core/domain"
)

// SyncStateStore persists the per-owner sync timestamp.
type SyncStateStore interface {
	// Save stores or updates sync state.
	Save(ctx context.Context, state domain.SyncState) error

	// Get retrieves sync state for an owner, or domain.ErrNotFound.
	Get(ctx context.Context, owner string) (*domain.SyncState, error)
}
