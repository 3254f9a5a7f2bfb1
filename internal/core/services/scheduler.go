package services

import (
	"context"
	"sync"
	"time"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/core/ports/driving"
	"github.com/worklens/worklens/internal/logger"
)

// DefaultSchedulerInterval is how often the background loop wakes up.
const DefaultSchedulerInterval = 15 * time.Minute

// Scheduler runs background smart syncs for every owner with an active
// integration. It is a pure core service with no external control API.
type Scheduler struct {
	interval     time.Duration
	integrations driven.IntegrationStore
	credentials  driven.CredentialProvider
	syncs        driving.SyncService

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. A non-positive interval falls back to
// DefaultSchedulerInterval.
func NewScheduler(
	interval time.Duration,
	integrations driven.IntegrationStore,
	credentials driven.CredentialProvider,
	syncs driving.SyncService,
) *Scheduler {
	if interval <= 0 {
		interval = DefaultSchedulerInterval
	}
	return &Scheduler{
		interval:     interval,
		integrations: integrations,
		credentials:  credentials,
		syncs:        syncs,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler and waits for in-flight syncs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// tick syncs every active owner once. Owners run sequentially; SmartSync's
// cool-down keeps redundant work out even when ticks overlap sync latency.
func (s *Scheduler) tick(ctx context.Context) {
	owners, err := s.integrations.ListOwners(ctx)
	if err != nil {
		logger.Error("scheduler: list owners: %v", err)
		return
	}

	for _, owner := range owners {
		s.wg.Add(1)
		func() {
			defer s.wg.Done()
			s.refreshCredentials(ctx, owner)

			result, err := s.syncs.SmartSync(ctx, owner)
			if err != nil {
				logger.Error("scheduler: smart sync for %s: %v", owner, err)
				return
			}
			if result.Skipped {
				logger.Debug("scheduler: smart sync for %s skipped", owner)
				return
			}
			logger.Info("scheduler: synced %d records for %s", result.Result.Total, owner)
		}()
	}
}

// refreshCredentials touches each provider credential so tokens nearing
// expiry are rotated before the sync needs them.
func (s *Scheduler) refreshCredentials(ctx context.Context, owner string) {
	for _, provider := range domain.AllProviderTypes() {
		if _, err := s.credentials.ActiveCredential(ctx, owner, provider); err != nil {
			logger.Debug("scheduler: credential %s/%s: %v", owner, provider, err)
		}
	}
}
