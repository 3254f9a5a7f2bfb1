package jira

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/core/domain"
)

// TestTicketNormaliser_Normalise tests the ticket mapping
func TestTicketNormaliser_Normalise(t *testing.T) {
	created := time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC)
	raw := &domain.RawItem{
		Kind:  domain.RawKindTicket,
		Owner: "alice",
		Ticket: &domain.RawTicket{
			Key:         "PAY-123",
			Summary:     "Payments webhook retries forever",
			Description: "The webhook handler ignores the retry cap.",
			Status:      "In Progress",
			Priority:    "High",
			IssueType:   "Bug",
			Assignee:    "alice",
			Reporter:    "bob",
			Project:     "PAY",
			URL:         "https://acme.atlassian.net/browse/PAY-123",
			Labels:      []string{"webhooks"},
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Hour),
		},
	}

	got, err := NewTicket().Normalise(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceTicket, got.Source)
	assert.Equal(t, "PAY-123", got.SourceID)
	assert.Equal(t, "Payments webhook retries forever", got.Title)
	assert.Equal(t, "In Progress", got.Attributes["state"])
	assert.Equal(t, "alice", got.Attributes["author"])
	// Project key doubles as the repo scope attribute.
	assert.Equal(t, "PAY", got.Attributes["repo"])
	assert.Equal(t, "High", got.Attributes["priority"])
	assert.Equal(t, "bob", got.Attributes["reporter"])
}

// TestTicketNormaliser_AuthorFallback tests assignee → reporter → unknown
func TestTicketNormaliser_AuthorFallback(t *testing.T) {
	got, err := NewTicket().Normalise(&domain.RawItem{
		Kind:   domain.RawKindTicket,
		Ticket: &domain.RawTicket{Key: "OPS-1", Reporter: "carol"},
	})
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Attributes["author"])

	got, err = NewTicket().Normalise(&domain.RawItem{
		Kind:   domain.RawKindTicket,
		Ticket: &domain.RawTicket{Key: "OPS-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "unknown", got.Attributes["author"])
	assert.False(t, got.CreatedAt.IsZero())
}

// TestTicketNormaliser_NilPayload tests the invalid input guard
func TestTicketNormaliser_NilPayload(t *testing.T) {
	_, err := NewTicket().Normalise(&domain.RawItem{Kind: domain.RawKindTicket})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
