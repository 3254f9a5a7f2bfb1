package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/core/domain"
)

// newTestStore creates a store backed by a temporary directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testContext(owner, sourceID string) *domain.Context {
	return &domain.Context{
		Owner:       owner,
		Source:      domain.SourceCodePull,
		SourceID:    sourceID,
		Title:       "Fix pagination",
		Body:        "Cursor resets on page two",
		ExternalURL: "https://github.com/acme/api/pull/41",
		Attributes:  map[string]any{"state": "open", "author": "jane", "repo": "acme/api"},
		CreatedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestContextStore_UpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	contexts := store.ContextStore()

	record := testContext("u1", "acme/api#41")
	require.NoError(t, contexts.Upsert(context.Background(), record))

	got, err := contexts.GetByKey(context.Background(), record.Key())
	require.NoError(t, err)
	assert.Equal(t, "Fix pagination", got.Title)
	assert.Equal(t, "jane", got.StringAttr("author"))
	assert.True(t, got.UpdatedAt.Equal(record.UpdatedAt))
}

// TestContextStore_UpsertIdempotent tests that re-ingesting the same record
// overwrites mutable fields instead of duplicating the row.
func TestContextStore_UpsertIdempotent(t *testing.T) {
	store := newTestStore(t)
	contexts := store.ContextStore()

	record := testContext("u1", "acme/api#41")
	require.NoError(t, contexts.Upsert(context.Background(), record))

	record.Title = "Fix pagination (v2)"
	record.Attributes["state"] = "merged"
	record.UpdatedAt = record.UpdatedAt.Add(time.Hour)
	require.NoError(t, contexts.Upsert(context.Background(), record))

	got, err := contexts.GetByKey(context.Background(), record.Key())
	require.NoError(t, err)
	assert.Equal(t, "Fix pagination (v2)", got.Title)
	assert.Equal(t, "merged", got.StringAttr("state"))

	all, err := contexts.List(context.Background(), domain.ContextFilter{Owner: "u1"})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// TestContextStore_ImmutableSkipsUpdate tests that commits keep their first
// ingested form.
func TestContextStore_ImmutableSkipsUpdate(t *testing.T) {
	store := newTestStore(t)
	contexts := store.ContextStore()

	commit := testContext("u1", "ab34ef1")
	commit.Source = domain.SourceCodeCommit
	commit.Title = "Initial message"
	require.NoError(t, contexts.Upsert(context.Background(), commit))

	commit.Title = "Rewritten message"
	require.NoError(t, contexts.Upsert(context.Background(), commit))

	got, err := contexts.GetByKey(context.Background(), commit.Key())
	require.NoError(t, err)
	assert.Equal(t, "Initial message", got.Title)
}

func TestContextStore_UpsertValidation(t *testing.T) {
	store := newTestStore(t)
	contexts := store.ContextStore()

	err := contexts.Upsert(context.Background(), &domain.Context{Owner: "u1", Source: "bogus", SourceID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = contexts.Upsert(context.Background(), &domain.Context{Source: domain.SourceTicket, SourceID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContextStore_GetByKeyNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ContextStore().GetByKey(context.Background(), domain.ContextKey{
		Owner: "u1", Source: domain.SourceTicket, SourceID: "PAY-1",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContextStore_ListFilters(t *testing.T) {
	store := newTestStore(t)
	contexts := store.ContextStore()

	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	for i, source := range []domain.SourceType{
		domain.SourceCodePull, domain.SourceTicket, domain.SourceChatMessage,
	} {
		record := testContext("u1", uuid.NewString())
		record.Source = source
		record.UpdatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, contexts.Upsert(context.Background(), record))
	}
	other := testContext("u2", "other#1")
	require.NoError(t, contexts.Upsert(context.Background(), other))

	// Owner scoping.
	mine, err := contexts.List(context.Background(), domain.ContextFilter{Owner: "u1"})
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	// Ordered by updated_at descending.
	assert.Equal(t, domain.SourceChatMessage, mine[0].Source)
	assert.Equal(t, domain.SourceCodePull, mine[2].Source)

	// Source filter.
	tickets, err := contexts.List(context.Background(), domain.ContextFilter{
		Owner:   "u1",
		Sources: []domain.SourceType{domain.SourceTicket},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.SourceTicket, tickets[0].Source)

	// Date range is half-open.
	ranged, err := contexts.List(context.Background(), domain.ContextFilter{
		Owner:     "u1",
		DateRange: domain.TimeRange{From: base, To: base.Add(2 * time.Hour)},
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	// Limit.
	limited, err := contexts.List(context.Background(), domain.ContextFilter{Owner: "u1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestContextStore_CountBySource(t *testing.T) {
	store := newTestStore(t)
	contexts := store.ContextStore()

	for i := 0; i < 3; i++ {
		record := testContext("u1", uuid.NewString())
		require.NoError(t, contexts.Upsert(context.Background(), record))
	}
	ticket := testContext("u1", "PAY-1")
	ticket.Source = domain.SourceTicket
	require.NoError(t, contexts.Upsert(context.Background(), ticket))

	counts, err := contexts.CountBySource(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, counts[domain.SourceCodePull])
	assert.Equal(t, 1, counts[domain.SourceTicket])
}

func testIntegration(owner string, provider domain.ProviderType) domain.Integration {
	return domain.Integration{
		ID:           uuid.NewString(),
		Owner:        owner,
		Provider:     provider,
		AccessToken:  "tok",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour).UTC(),
		SiteMetadata: map[string]string{"login": "jane"},
		Active:       true,
	}
}

func TestIntegrationStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	integrations := store.IntegrationStore()

	integration := testIntegration("u1", domain.ProviderGitHub)
	require.NoError(t, integrations.Save(context.Background(), integration))

	got, err := integrations.Get(context.Background(), "u1", domain.ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, integration.ID, got.ID)
	assert.Equal(t, "jane", got.Site("login"))
	assert.True(t, got.Active)
}

// TestIntegrationStore_SaveReplacesByOwnerProvider tests that reconnecting
// a provider updates the existing row rather than adding one.
func TestIntegrationStore_SaveReplacesByOwnerProvider(t *testing.T) {
	store := newTestStore(t)
	integrations := store.IntegrationStore()

	first := testIntegration("u1", domain.ProviderGitHub)
	require.NoError(t, integrations.Save(context.Background(), first))

	second := testIntegration("u1", domain.ProviderGitHub)
	second.AccessToken = "new-tok"
	require.NoError(t, integrations.Save(context.Background(), second))

	all, err := integrations.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new-tok", all[0].AccessToken)
}

func TestIntegrationStore_Deactivate(t *testing.T) {
	store := newTestStore(t)
	integrations := store.IntegrationStore()

	require.NoError(t, integrations.Save(context.Background(), testIntegration("u1", domain.ProviderSlack)))
	require.NoError(t, integrations.Deactivate(context.Background(), "u1", domain.ProviderSlack))

	// Row survives for attribution, flagged inactive.
	got, err := integrations.Get(context.Background(), "u1", domain.ProviderSlack)
	require.NoError(t, err)
	assert.False(t, got.Active)

	err = integrations.Deactivate(context.Background(), "u1", domain.ProviderJira)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegrationStore_ListOwners(t *testing.T) {
	store := newTestStore(t)
	integrations := store.IntegrationStore()

	require.NoError(t, integrations.Save(context.Background(), testIntegration("u1", domain.ProviderGitHub)))
	require.NoError(t, integrations.Save(context.Background(), testIntegration("u2", domain.ProviderJira)))
	require.NoError(t, integrations.Deactivate(context.Background(), "u2", domain.ProviderJira))

	owners, err := integrations.ListOwners(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, owners)
}

func TestSyncStateStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	states := store.SyncStateStore()

	_, err := states.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	require.NoError(t, states.Save(context.Background(), domain.SyncState{Owner: "u1", LastSync: first}))

	got, err := states.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, got.LastSync.Equal(first))

	second := first.Add(time.Hour)
	require.NoError(t, states.Save(context.Background(), domain.SyncState{Owner: "u1", LastSync: second}))

	got, err = states.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, got.LastSync.Equal(second))
}
