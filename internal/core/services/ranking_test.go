package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/core/domain"
)

func pullRecord(title, body string, attrs map[string]any, age time.Duration) domain.Context {
	return domain.Context{
		Owner: "alice", Source: domain.SourceCodePull, SourceID: title,
		Title: title, Body: body, Attributes: attrs,
		UpdatedAt: time.Now().Add(-age),
	}
}

// TestScoreContext_Ladder tests first-match-wins scoring top to bottom.
func TestScoreContext_Ladder(t *testing.T) {
	cases := []struct {
		name   string
		record domain.Context
		term   string
		want   int
	}{
		{"exact title", pullRecord("bug", "", nil, 0), "bug", scoreExactTitle},
		{"title contains term", pullRecord("Payments bug report", "", nil, 0), "bug", scoreTitleFull},
		{"title contains first word", pullRecord("fix the thing", "", nil, 0), "fix payments", scoreTitleWord},
		{"body contains", pullRecord("release notes", "fix the bug", nil, 0), "bug", scoreBody},
		{"repo attr", pullRecord("release notes", "", map[string]any{"repo": "acme/bugtracker"}, 0), "bug", scoreRepo},
		{"author attr", pullRecord("release notes", "", map[string]any{"author": "bugsy"}, 0), "bug", scoreAuthor},
		{"other attr", pullRecord("release notes", "", map[string]any{"labels": []string{"bugfix"}}, 0), "bug", scoreOtherAttr},
		{"no match", pullRecord("release notes", "", nil, 0), "bug", scoreFilterOnly},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreContext(&tc.record, tc.term))
		})
	}
}

// TestScoreContext_CaseInsensitive tests matching ignores case.
func TestScoreContext_CaseInsensitive(t *testing.T) {
	record := pullRecord("BUG", "", nil, 0)
	assert.Equal(t, scoreExactTitle, scoreContext(&record, "bug"))
}

// TestRankResults_BugExample tests the canonical ordering: exact title
// first, partial titles by recency, content matches last.
func TestRankResults_BugExample(t *testing.T) {
	records := []domain.Context{
		pullRecord("Fix bug in payments", "", nil, 2*time.Hour),
		pullRecord("Payments module bug", "", nil, time.Hour),
		pullRecord("bug", "", nil, 3*time.Hour),
		pullRecord("Unrelated cleanup", "found a bug in review", nil, time.Minute),
	}

	results := rankResults(records, "bug")
	require.Len(t, results, 4)

	assert.Equal(t, "bug", results[0].Context.Title)
	assert.Equal(t, "Payments module bug", results[1].Context.Title)
	assert.Equal(t, "Fix bug in payments", results[2].Context.Title)
	assert.Equal(t, "Unrelated cleanup", results[3].Context.Title)
}

// TestRankResults_FilterOnlyRecencyOrder tests that an empty term ranks
// everything equally and orders purely by recency.
func TestRankResults_FilterOnlyRecencyOrder(t *testing.T) {
	records := []domain.Context{
		pullRecord("older", "", nil, time.Hour),
		pullRecord("newer", "", nil, time.Minute),
	}

	results := rankResults(records, "")
	require.Len(t, results, 2)
	assert.Equal(t, "newer", results[0].Context.Title)
	assert.Equal(t, scoreFilterOnly, results[0].Relevance)
	assert.Equal(t, scoreFilterOnly, results[1].Relevance)
}

// TestHighlight tests marker wrapping of case-insensitive occurrences.
func TestHighlight(t *testing.T) {
	assert.Equal(t, "<mark>Bug</mark> in <mark>bug</mark>tracker",
		highlight("Bug in bugtracker", "bug"))
	assert.Equal(t, "no match", highlight("no match", "zzz"))
	assert.Equal(t, "untouched", highlight("untouched"))
	assert.Equal(t, "untouched", highlight("untouched", ""))
}

// TestHighlight_MultipleNeedles tests author and repo markers alongside
// the term.
func TestHighlight_MultipleNeedles(t *testing.T) {
	got := highlight("john fixed the api", "fixed", "john")
	assert.Equal(t, "<mark>john</mark> <mark>fixed</mark> the api", got)
}
