// Package memory provides in-memory implementations of the storage ports,
// used in tests and as lightweight fallbacks.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure ContextStore implements the interface.
var _ driven.ContextStore = (*ContextStore)(nil)

// ContextStore is an in-memory implementation of driven.ContextStore.
type ContextStore struct {
	mu      sync.RWMutex
	records map[domain.ContextKey]domain.Context
}

// NewContextStore creates a new in-memory context store.
func NewContextStore() *ContextStore {
	return &ContextStore{
		records: make(map[domain.ContextKey]domain.Context),
	}
}

// Upsert inserts or updates a record by its natural key. Immutable source
// kinds keep the first stored version.
func (s *ContextStore) Upsert(_ context.Context, record *domain.Context) error {
	if record.Owner == "" || record.SourceID == "" || !record.Source.IsValid() {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := record.Key()
	if _, exists := s.records[key]; exists && record.Source.Immutable() {
		return nil
	}
	s.records[key] = *record
	return nil
}

// GetByKey retrieves one record.
func (s *ContextStore) GetByKey(_ context.Context, key domain.ContextKey) (*domain.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns records matching the filter, most recently updated first.
func (s *ContextStore) List(_ context.Context, filter domain.ContextFilter) ([]domain.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Context
	for _, record := range s.records {
		if filter.Owner != "" && record.Owner != filter.Owner {
			continue
		}
		if len(filter.Sources) > 0 && !containsSource(filter.Sources, record.Source) {
			continue
		}
		if !filter.DateRange.IsZero() && !filter.DateRange.Contains(record.UpdatedAt) {
			continue
		}
		matched = append(matched, record)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// CountBySource returns per-source record counts for an owner.
func (s *ContextStore) CountBySource(_ context.Context, owner string) (map[domain.SourceType]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.SourceType]int)
	for _, record := range s.records {
		if record.Owner == owner {
			counts[record.Source]++
		}
	}
	return counts, nil
}

func containsSource(sources []domain.SourceType, source domain.SourceType) bool {
	for _, s := range sources {
		if s == source {
			return true
		}
	}
	return false
}
