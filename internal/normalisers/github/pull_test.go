package github

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/core/domain"
)

// TestPullNormaliser_Normalise tests the pull request mapping
func TestPullNormaliser_Normalise(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)

	raw := &domain.RawItem{
		Kind:  domain.RawKindPull,
		Owner: "alice",
		Pull: &domain.RawPull{
			SourceID:  "acme/api#41",
			Number:    41,
			Title:     "Fix race in sync pipeline",
			Body:      "Closes the channel before the worker drains it.",
			State:     "open",
			Author:    "alice",
			Repo:      "acme/api",
			URL:       "https://github.com/acme/api/pull/41",
			Labels:    []string{"bug"},
			CreatedAt: created,
			UpdatedAt: updated,
		},
	}

	got, err := NewPull().Normalise(raw)
	require.NoError(t, err)

	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, domain.SourceCodePull, got.Source)
	assert.Equal(t, "acme/api#41", got.SourceID)
	assert.Equal(t, "Fix race in sync pipeline", got.Title)
	assert.Equal(t, "open", got.Attributes["state"])
	assert.Equal(t, "alice", got.Attributes["author"])
	assert.Equal(t, "acme/api", got.Attributes["repo"])
	assert.Equal(t, []string{"bug"}, got.Attributes["labels"])
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, updated, got.UpdatedAt)
}

// TestPullNormaliser_StateOverrides tests merged/draft state precedence
func TestPullNormaliser_StateOverrides(t *testing.T) {
	base := domain.RawPull{SourceID: "r#1", State: "closed"}

	merged := base
	merged.Merged = true
	got, err := NewPull().Normalise(&domain.RawItem{Kind: domain.RawKindPull, Pull: &merged})
	require.NoError(t, err)
	assert.Equal(t, "merged", got.Attributes["state"])

	draft := base
	draft.State = "open"
	draft.Draft = true
	got, err = NewPull().Normalise(&domain.RawItem{Kind: domain.RawKindPull, Pull: &draft})
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Attributes["state"])
}

// TestPullNormaliser_Defaults tests malformed input degradation
func TestPullNormaliser_Defaults(t *testing.T) {
	got, err := NewPull().Normalise(&domain.RawItem{
		Kind: domain.RawKindPull,
		Pull: &domain.RawPull{SourceID: "r#2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "unknown", got.Attributes["state"])
	assert.Equal(t, "unknown", got.Attributes["author"])
	assert.Equal(t, "unknown", got.Attributes["repo"])
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

// TestPullNormaliser_TruncatesTitle tests the deterministic title cap
func TestPullNormaliser_TruncatesTitle(t *testing.T) {
	long := strings.Repeat("x", domain.TitleMaxLen*2)
	got, err := NewPull().Normalise(&domain.RawItem{
		Kind: domain.RawKindPull,
		Pull: &domain.RawPull{SourceID: "r#3", Title: long},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TitleMaxLen, len([]rune(got.Title)))
}

// TestPullNormaliser_NilPayload tests the invalid input guard
func TestPullNormaliser_NilPayload(t *testing.T) {
	_, err := NewPull().Normalise(&domain.RawItem{Kind: domain.RawKindPull})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewPull().Normalise(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
