package driven

import (
	"context"
	"errors"
	"time"

	"github.com/worklens/worklens/internal/core/domain"
)

// Connector fetches raw activity from one external provider.
// Each provider (github, jira, slack) implements this interface.
type Connector interface {
	// Type returns the provider this connector talks to.
	Type() domain.ProviderType

	// Validate performs a lightweight authenticated call to verify the
	// integration's credential works. Returns domain.ErrAuthInvalid (or a
	// wrapping error) when it does not.
	Validate(ctx context.Context, integration domain.Integration) error

	// FetchSince streams raw items updated at or after since. The item
	// channel carries payloads; the error channel carries *ItemError for
	// non-fatal unit failures, a terminal error for credential failures,
	// and a FetchComplete sentinel on success. Both channels close when
	// the stream ends. Pagination is handled internally; pages are
	// fetched sequentially per stream.
	FetchSince(
		ctx context.Context, integration domain.Integration, since time.Time,
	) (<-chan domain.RawItem, <-chan error)
}

// FetchComplete is sent on the error channel when a fetch stream finishes
// successfully. Carries the count of items emitted for logging.
type FetchComplete struct {
	Items int
}

// Error implements the error interface so FetchComplete can travel on the
// error channel, mirroring how connectors signal completion.
func (FetchComplete) Error() string {
	return "fetch complete"
}

// IsFetchComplete checks if an error is actually a successful completion.
func IsFetchComplete(err error) (*FetchComplete, bool) {
	var fc *FetchComplete
	if errors.As(err, &fc) {
		return fc, true
	}
	return nil, false
}

// DetailFetcher is an optional connector extension for on-demand rich
// detail (diff stats, check runs, review threads). Not part of bulk sync.
type DetailFetcher interface {
	// FetchDetail returns provider-specific detail for one record as a
	// JSON-serialisable attribute bag.
	FetchDetail(
		ctx context.Context, integration domain.Integration, sourceID string,
	) (map[string]any, error)
}
