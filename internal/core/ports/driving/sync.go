package driving

import (
	"context"

	"github.com/worklens/worklens/internal/core/domain"
)

// SyncService drives synchronisation for one owner across all connected
// providers.
type SyncService interface {
	// SyncAll runs a full sync bounded by a lookback window of daysBack
	// days (domain.DefaultLookbackDays when <= 0). Providers run in
	// parallel; a failure in one never aborts the others. The result
	// carries per-source counts and aggregated error strings.
	SyncAll(ctx context.Context, owner string, daysBack int) (*domain.SyncResult, error)

	// SmartSync runs a throttled incremental sync: skipped inside the
	// cool-down window, otherwise a full sync with the short lookback.
	// Concurrent calls for the same owner share one execution.
	SmartSync(ctx context.Context, owner string) (*domain.SmartSyncResult, error)
}
