package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/adapters/driven/storage/memory"
	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/normalisers"
)

// fakeConnector replays canned items and errors on its fetch stream.
type fakeConnector struct {
	provider    domain.ProviderType
	items       []domain.RawItem
	itemErrs    []*domain.ItemError
	terminalErr error
	fetches     atomic.Int32
}

func (f *fakeConnector) Type() domain.ProviderType { return f.provider }

func (f *fakeConnector) Validate(context.Context, domain.Integration) error { return nil }

func (f *fakeConnector) FetchSince(
	_ context.Context, _ domain.Integration, _ time.Time,
) (<-chan domain.RawItem, <-chan error) {
	f.fetches.Add(1)
	itemsChan := make(chan domain.RawItem)
	errsChan := make(chan error, len(f.itemErrs)+2)

	go func() {
		defer close(itemsChan)
		defer close(errsChan)

		if f.terminalErr != nil {
			errsChan <- f.terminalErr
			return
		}
		for _, item := range f.items {
			itemsChan <- item
		}
		for _, itemErr := range f.itemErrs {
			errsChan <- itemErr
		}
		errsChan <- &driven.FetchComplete{Items: len(f.items)}
	}()

	return itemsChan, errsChan
}

type syncFixture struct {
	service      *SyncService
	contexts     *memory.ContextStore
	integrations *memory.IntegrationStore
	syncStates   *memory.SyncStateStore
}

func newSyncFixture(t *testing.T, connectors map[domain.ProviderType]driven.Connector) *syncFixture {
	t.Helper()

	integrations := memory.NewIntegrationStore()
	for provider := range connectors {
		require.NoError(t, integrations.Save(context.Background(), domain.Integration{
			ID: "i-" + string(provider), Owner: "alice", Provider: provider,
			AccessToken: "token", Active: true,
		}))
	}

	contexts := memory.NewContextStore()
	syncStates := memory.NewSyncStateStore()
	service := NewSyncService(
		connectors,
		NewCredentialService(integrations, nil),
		contexts,
		syncStates,
		normalisers.NewRegistry(),
	)
	return &syncFixture{
		service:      service,
		contexts:     contexts,
		integrations: integrations,
		syncStates:   syncStates,
	}
}

func rawPull(id, title string) domain.RawItem {
	now := time.Now()
	return domain.RawItem{
		Kind: domain.RawKindPull, Owner: "alice",
		Pull: &domain.RawPull{
			SourceID: id, Number: 1, Title: title, State: "open",
			Author: "alice", Repo: "acme/api",
			CreatedAt: now.Add(-time.Hour), UpdatedAt: now,
		},
	}
}

func rawMessage(channel, ts, text string) domain.RawItem {
	return domain.RawItem{
		Kind: domain.RawKindChatMessage, Owner: "alice",
		Message: &domain.RawChatMessage{
			ChannelID: channel, ChannelName: channel, ChannelKind: "public",
			Timestamp: ts, Author: "alice", Text: text, SentAt: time.Now(),
		},
	}
}

// TestSyncService_SyncAll_Idempotent tests that repeating a sync with the
// same provider data produces no duplicate rows.
func TestSyncService_SyncAll_Idempotent(t *testing.T) {
	github := &fakeConnector{
		provider: domain.ProviderGitHub,
		items:    []domain.RawItem{rawPull("acme/api#1", "Fix login"), rawPull("acme/api#2", "Add cache")},
	}
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{domain.ProviderGitHub: github})

	first, err := fx.service.SyncAll(context.Background(), "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Total)
	assert.Empty(t, first.Errors)

	second, err := fx.service.SyncAll(context.Background(), "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Total)

	stored, err := fx.contexts.List(context.Background(), domain.ContextFilter{Owner: "alice"})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

// TestSyncService_SyncAll_PartialChatFailure tests that one failed
// conversation surfaces as an error string while the rest still count.
func TestSyncService_SyncAll_PartialChatFailure(t *testing.T) {
	slack := &fakeConnector{
		provider: domain.ProviderSlack,
		items: []domain.RawItem{
			rawMessage("C1", "1700000000.000100", "deploy done"),
			rawMessage("C2", "1700000000.000200", "lunch?"),
		},
		itemErrs: []*domain.ItemError{
			{Provider: domain.ProviderSlack, Unit: "secret-channel", Err: domain.ErrForbidden},
		},
	}
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{domain.ProviderSlack: slack})

	result, err := fx.service.SyncAll(context.Background(), "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Counts[domain.SourceChatMessage])
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "secret-channel")
}

// TestSyncService_SyncAll_ProviderFailureIsolated tests that a terminal
// failure in one provider never aborts the others.
func TestSyncService_SyncAll_ProviderFailureIsolated(t *testing.T) {
	github := &fakeConnector{
		provider: domain.ProviderGitHub,
		items:    []domain.RawItem{rawPull("acme/api#1", "Fix login")},
	}
	jira := &fakeConnector{
		provider:    domain.ProviderJira,
		terminalErr: domain.ErrAuthInvalid,
	}
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{
		domain.ProviderGitHub: github,
		domain.ProviderJira:   jira,
	})

	result, err := fx.service.SyncAll(context.Background(), "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts[domain.SourceCodePull])
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "jira")
}

// TestSyncService_SyncAll_SkipsDisconnectedProviders tests that a provider
// without an integration is skipped silently.
func TestSyncService_SyncAll_SkipsDisconnectedProviders(t *testing.T) {
	github := &fakeConnector{provider: domain.ProviderGitHub}
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{domain.ProviderGitHub: github})

	require.NoError(t, fx.integrations.Deactivate(context.Background(), "alice", domain.ProviderGitHub))

	result, err := fx.service.SyncAll(context.Background(), "alice", 7)
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Empty(t, result.Errors)
	assert.Zero(t, github.fetches.Load())
}

// TestSyncService_SyncAll_RequiresOwner tests input validation.
func TestSyncService_SyncAll_RequiresOwner(t *testing.T) {
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{})

	_, err := fx.service.SyncAll(context.Background(), "", 7)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestSyncService_SyncAll_UpdatesSyncState tests that a full sync records
// its completion time.
func TestSyncService_SyncAll_UpdatesSyncState(t *testing.T) {
	github := &fakeConnector{provider: domain.ProviderGitHub}
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{domain.ProviderGitHub: github})

	_, err := fx.service.SyncAll(context.Background(), "alice", 7)
	require.NoError(t, err)

	state, err := fx.syncStates.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, state.LastSync.IsZero())
}

// TestSyncService_SmartSync_CooldownSkips tests that a second smart sync
// inside the cool-down window is skipped without touching sync state.
func TestSyncService_SmartSync_CooldownSkips(t *testing.T) {
	github := &fakeConnector{
		provider: domain.ProviderGitHub,
		items:    []domain.RawItem{rawPull("acme/api#1", "Fix login")},
	}
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{domain.ProviderGitHub: github})

	first, err := fx.service.SmartSync(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.Equal(t, 1, first.Result.Total)

	stateAfterFirst, err := fx.syncStates.Get(context.Background(), "alice")
	require.NoError(t, err)

	second, err := fx.service.SmartSync(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Nil(t, second.Result)

	stateAfterSecond, err := fx.syncStates.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, stateAfterFirst.LastSync, stateAfterSecond.LastSync)
	assert.Equal(t, int32(1), github.fetches.Load())
}

// TestSyncService_SmartSync_RunsAfterCooldown tests that a stale sync state
// lets the smart sync through.
func TestSyncService_SmartSync_RunsAfterCooldown(t *testing.T) {
	github := &fakeConnector{provider: domain.ProviderGitHub}
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{domain.ProviderGitHub: github})

	require.NoError(t, fx.syncStates.Save(context.Background(), domain.SyncState{
		Owner:    "alice",
		LastSync: time.Now().Add(-domain.SmartSyncCooldown - time.Minute),
	}))

	result, err := fx.service.SmartSync(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, int32(1), github.fetches.Load())
}

// TestSyncService_SyncAll_NormaliseFailureRecorded tests that a malformed
// raw item becomes an error string, not a dropped sync.
func TestSyncService_SyncAll_NormaliseFailureRecorded(t *testing.T) {
	github := &fakeConnector{
		provider: domain.ProviderGitHub,
		items: []domain.RawItem{
			{Kind: domain.RawKindPull, Owner: "alice"}, // nil payload
			rawPull("acme/api#2", "Add cache"),
		},
	}
	fx := newSyncFixture(t, map[domain.ProviderType]driven.Connector{domain.ProviderGitHub: github})

	result, err := fx.service.SyncAll(context.Background(), "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts[domain.SourceCodePull])
	assert.Len(t, result.Errors, 1)
}
