package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/core/ports/driving"
	"github.com/worklens/worklens/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncService = (*SyncService)(nil)

// SyncService orchestrates activity synchronisation across providers.
type SyncService struct {
	connectors  map[domain.ProviderType]driven.Connector
	credentials driven.CredentialProvider
	contexts    driven.ContextStore
	syncStates  driven.SyncStateStore
	registry    driven.NormaliserRegistry

	// single de-duplicates concurrent smart syncs per owner, so racing
	// callers share one execution instead of stacking writes on the same
	// upsert keys.
	single singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// NewSyncService creates a sync orchestrator over the given connectors.
func NewSyncService(
	connectors map[domain.ProviderType]driven.Connector,
	credentials driven.CredentialProvider,
	contexts driven.ContextStore,
	syncStates driven.SyncStateStore,
	registry driven.NormaliserRegistry,
) *SyncService {
	return &SyncService{
		connectors:  connectors,
		credentials: credentials,
		contexts:    contexts,
		syncStates:  syncStates,
		registry:    registry,
		now:         time.Now,
	}
}

// SyncAll runs a full sync across every connected provider in parallel.
// Provider failures are aggregated into the result, never propagated.
func (s *SyncService) SyncAll(ctx context.Context, owner string, daysBack int) (*domain.SyncResult, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if daysBack <= 0 {
		daysBack = domain.DefaultLookbackDays
	}
	since := s.now().AddDate(0, 0, -daysBack)

	logger.Info("starting sync for %s, %d days back", owner, daysBack)

	result := domain.NewSyncResult()
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(max(len(s.connectors), 1))
	for provider, connector := range s.connectors {
		provider, connector := provider, connector
		group.Go(func() error {
			partial := s.syncProvider(ctx, owner, provider, connector, since)
			mu.Lock()
			result.Merge(partial)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	if err := s.syncStates.Save(ctx, domain.SyncState{Owner: owner, LastSync: s.now()}); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("save sync state: %v", err))
	}

	logger.Info("sync complete for %s: %d records, %d errors", owner, result.Total, len(result.Errors))
	return result, nil
}

// SmartSync runs a cool-down-throttled sync with the short lookback.
// Concurrent calls for one owner share a single execution.
func (s *SyncService) SmartSync(ctx context.Context, owner string) (*domain.SmartSyncResult, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}

	value, err, _ := s.single.Do(owner, func() (any, error) {
		state, err := s.syncStates.Get(ctx, owner)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get sync state: %w", err)
		}

		if state.InCooldown(s.now()) {
			logger.Debug("smart sync for %s skipped, last sync %s", owner, state.LastSync)
			return &domain.SmartSyncResult{Skipped: true, LastSync: state.LastSync}, nil
		}

		result, err := s.SyncAll(ctx, owner, domain.SmartSyncLookbackDays)
		if err != nil {
			return nil, err
		}
		return &domain.SmartSyncResult{Result: result, LastSync: s.now()}, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*domain.SmartSyncResult), nil
}

// syncProvider drains one connector's fetch stream into the store. The
// returned partial result always exists; failures become error strings.
func (s *SyncService) syncProvider(
	ctx context.Context, owner string, provider domain.ProviderType,
	connector driven.Connector, since time.Time,
) *domain.SyncResult {
	result := domain.NewSyncResult()

	integration, err := s.credentials.ActiveCredential(ctx, owner, provider)
	if err != nil {
		if errors.Is(err, domain.ErrNotConnected) {
			return result
		}
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", provider, err))
		return result
	}

	itemsChan, errsChan := connector.FetchSince(ctx, *integration, since)

	for {
		select {
		case <-ctx.Done():
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", provider, ctx.Err()))
			return result

		case err, ok := <-errsChan:
			if !ok {
				errsChan = nil
				continue
			}
			if fc, done := driven.IsFetchComplete(err); done {
				logger.Debug("%s fetch complete, %d items", provider, fc.Items)
				continue
			}
			if itemErr, isItem := domain.IsItemError(err); isItem {
				result.Errors = append(result.Errors, itemErr.Error())
				continue
			}
			// Terminal connector failure; the stream is about to close.
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", provider, err))

		case item, ok := <-itemsChan:
			if !ok {
				if errsChan == nil {
					return result
				}
				// Drain remaining errors before returning.
				for err := range errsChan {
					if _, done := driven.IsFetchComplete(err); done {
						continue
					}
					if itemErr, isItem := domain.IsItemError(err); isItem {
						result.Errors = append(result.Errors, itemErr.Error())
						continue
					}
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", provider, err))
				}
				return result
			}

			record, err := s.registry.Normalise(&item)
			if err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s: normalise %s: %v", provider, item.SourceID(), err))
				continue
			}
			if err := s.contexts.Upsert(ctx, record); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s: upsert %s: %v", provider, item.SourceID(), err))
				continue
			}
			result.Add(record.Source, 1)
		}
	}
}
