package github

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/core/domain"
)

// TestCommitNormaliser_Normalise tests the commit mapping
func TestCommitNormaliser_Normalise(t *testing.T) {
	when := time.Date(2026, 7, 14, 9, 30, 0, 0, time.UTC)
	raw := &domain.RawItem{
		Kind:  domain.RawKindCommit,
		Owner: "alice",
		Commit: &domain.RawCommit{
			SHA:       "ab34ef127890aa34ef127890aa34ef127890aa34",
			Message:   "Tighten retry budget\n\nCap throttle waits at five.",
			Author:    "alice",
			Repo:      "acme/api",
			URL:       "https://github.com/acme/api/commit/ab34ef1",
			Additions: 12,
			Deletions: 4,
			CreatedAt: when,
		},
	}

	got, err := NewCommit().Normalise(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceCodeCommit, got.Source)
	assert.Equal(t, "ab34ef127890aa34ef127890aa34ef127890aa34", got.SourceID)
	assert.Equal(t, "Tighten retry budget", got.Title)
	assert.Contains(t, got.Body, "Cap throttle waits")
	assert.Equal(t, "ab34ef1", got.Attributes["sha"])
	assert.Equal(t, 12, got.Attributes["additions"])
	assert.Equal(t, when, got.CreatedAt)
	assert.Equal(t, when, got.UpdatedAt)
}

// TestCommitNormaliser_ImmutableSource tests that commits map to the
// immutable source type
func TestCommitNormaliser_ImmutableSource(t *testing.T) {
	got, err := NewCommit().Normalise(&domain.RawItem{
		Kind:   domain.RawKindCommit,
		Commit: &domain.RawCommit{SHA: "f00", Message: "init"},
	})
	require.NoError(t, err)
	assert.True(t, got.Source.Immutable())
}

// TestIssueAndReviewNormalisers tests the remaining code-hosting mappings
func TestIssueAndReviewNormalisers(t *testing.T) {
	issue, err := NewIssue().Normalise(&domain.RawItem{
		Kind:  domain.RawKindIssue,
		Owner: "alice",
		Issue: &domain.RawIssue{
			SourceID: "acme/api#7", Number: 7, Title: "Crash on empty cursor",
			State: "open", Author: "bob", Repo: "acme/api", Comments: 3,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceCodeIssue, issue.Source)
	assert.Equal(t, 3, issue.Attributes["comments"])

	review, err := NewReview().Normalise(&domain.RawItem{
		Kind:  domain.RawKindReview,
		Owner: "alice",
		Review: &domain.RawReview{
			SourceID: "acme/api#9", Number: 9, Title: "Add cursor schema",
			State: "open", Author: "carol", Repo: "acme/api",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceCodeReview, review.Source)
	assert.Equal(t, "reviewer", review.Attributes["role"])
	// Author is the PR author, not the reviewing account.
	assert.Equal(t, "carol", review.Attributes["author"])
}
