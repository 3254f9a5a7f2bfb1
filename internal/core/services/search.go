package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/core/ports/driving"
)

// DefaultSearchLimit caps result sets when the caller supplies no limit.
const DefaultSearchLimit = 50

// candidateFactor widens the store read beyond the requested limit so the
// in-memory attribute filters and ranking have enough rows to work with.
const candidateFactor = 10

var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers queries over stored Contexts.
type SearchService struct {
	contexts driven.ContextStore
	now      func() time.Time
}

// NewSearchService creates a search service over the store.
func NewSearchService(contexts driven.ContextStore) *SearchService {
	return &SearchService{contexts: contexts, now: time.Now}
}

// Search parses the query, reads matching rows, ranks and highlights them.
func (s *SearchService) Search(ctx context.Context, owner, query string, limit int) (*domain.SearchResponse, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	parsed := ParseQuery(query, s.now())

	filter := domain.ContextFilter{
		Owner:     owner,
		DateRange: parsed.DateRange,
	}
	if !parsed.HasAttributeFilters() {
		// No attribute filters means every row is a candidate, so a
		// recency-bounded read is enough for ranking.
		filter.Limit = limit * candidateFactor
	}
	candidates, err := s.contexts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}

	matched := filterByAttributes(candidates, &parsed)
	results := rankResults(matched, parsed.Term)
	if len(results) > limit {
		results = results[:limit]
	}

	for i := range results {
		record := &results[i].Context
		record.Title = highlight(record.Title, parsed.Term, parsed.Author, parsed.Repo)
		record.Body = highlight(record.Body, parsed.Term, parsed.Author, parsed.Repo)
	}

	return &domain.SearchResponse{
		Results:   results,
		QueryType: parsed.Type,
		Parsed:    parsed,
	}, nil
}

// filterByAttributes applies the author, status and repo filters. These
// live in the serialized attribute bag, so they are matched in memory
// rather than pushed into the store query.
func filterByAttributes(records []domain.Context, parsed *domain.ParsedQuery) []domain.Context {
	if !parsed.HasAttributeFilters() {
		return records
	}

	matched := make([]domain.Context, 0, len(records))
	for _, record := range records {
		if parsed.Author != "" &&
			!strings.Contains(strings.ToLower(record.StringAttr(attributeAuthorKey)), strings.ToLower(parsed.Author)) {
			continue
		}
		if parsed.Repo != "" &&
			!strings.Contains(strings.ToLower(record.StringAttr(attributeRepoKey)), strings.ToLower(parsed.Repo)) {
			continue
		}
		if len(parsed.Statuses) > 0 && !matchesStatus(&record, parsed.Statuses) {
			continue
		}
		matched = append(matched, record)
	}
	return matched
}

func matchesStatus(record *domain.Context, statuses []string) bool {
	state := strings.ToLower(record.StringAttr("state"))
	for _, status := range statuses {
		if state == status {
			return true
		}
	}
	return false
}

var _ driving.StatsService = (*StatsService)(nil)

// StatsService summarises the stored record set per owner.
type StatsService struct {
	contexts   driven.ContextStore
	syncStates driven.SyncStateStore
}

// NewStatsService creates a stats service.
func NewStatsService(contexts driven.ContextStore, syncStates driven.SyncStateStore) *StatsService {
	return &StatsService{contexts: contexts, syncStates: syncStates}
}

// Stats returns total and per-source counts plus the last sync time.
func (s *StatsService) Stats(ctx context.Context, owner string) (*domain.Stats, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}

	counts, err := s.contexts.CountBySource(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("count by source: %w", err)
	}

	stats := &domain.Stats{CountsBySource: counts}
	for _, n := range counts {
		stats.Total += n
	}

	state, err := s.syncStates.Get(ctx, owner)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get sync state: %w", err)
	}
	if state != nil {
		stats.LastSync = state.LastSync
	}
	return stats, nil
}
