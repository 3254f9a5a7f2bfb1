package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/worklens/worklens/internal/core/domain"
)

// Wednesday 2024-03-13 15:30 local.
var parseNow = time.Date(2024, 3, 13, 15, 30, 0, 0, time.Local)

// TestParseQuery_Today tests the today phrase and its half-open range.
func TestParseQuery_Today(t *testing.T) {
	parsed := ParseQuery("today", parseNow)

	assert.Empty(t, parsed.Term)
	assert.Equal(t, domain.QueryTypeDate, parsed.Type)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), parsed.DateRange.From)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.Local), parsed.DateRange.To)
}

// TestParseQuery_PhraseWholeWordsOnly tests that temporal phrases only
// match whole words, so "todays standup" stays free text instead of
// losing "today" mid-word.
func TestParseQuery_PhraseWholeWordsOnly(t *testing.T) {
	parsed := ParseQuery("todays standup", parseNow)

	assert.Equal(t, "todays standup", parsed.Term)
	assert.False(t, parsed.HasDateFilter())
	assert.Equal(t, domain.QueryTypeText, parsed.Type)

	yesterdays := ParseQuery("yesterdays notes", parseNow)
	assert.Equal(t, "yesterdays notes", yesterdays.Term)
	assert.False(t, yesterdays.HasDateFilter())
}

// TestParseQuery_PhraseWithPunctuation tests that adjacent punctuation
// still counts as a word boundary.
func TestParseQuery_PhraseWithPunctuation(t *testing.T) {
	parsed := ParseQuery("standup (today)", parseNow)

	assert.True(t, parsed.HasDateFilter())
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), parsed.DateRange.From)
}

// TestParseQuery_Yesterday tests the yesterday range.
func TestParseQuery_Yesterday(t *testing.T) {
	parsed := ParseQuery("yesterday", parseNow)

	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local), parsed.DateRange.From)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), parsed.DateRange.To)
}

// TestParseQuery_Weeks tests Monday-anchored week ranges.
func TestParseQuery_Weeks(t *testing.T) {
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)

	thisWeek := ParseQuery("this week", parseNow)
	assert.Equal(t, monday, thisWeek.DateRange.From)
	assert.Equal(t, monday.AddDate(0, 0, 7), thisWeek.DateRange.To)

	lastWeek := ParseQuery("last week", parseNow)
	assert.Equal(t, monday.AddDate(0, 0, -7), lastWeek.DateRange.From)
	assert.Equal(t, monday, lastWeek.DateRange.To)
}

// TestParseQuery_WeekStartsMonday tests that a Sunday query still anchors
// on the preceding Monday.
func TestParseQuery_WeekStartsMonday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 10, 0, 0, 0, time.Local)

	parsed := ParseQuery("this week", sunday)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), parsed.DateRange.From)
}

// TestParseQuery_AuthorAndStatus tests the combined author + status example.
func TestParseQuery_AuthorAndStatus(t *testing.T) {
	parsed := ParseQuery("@john is:open", parseNow)

	assert.Equal(t, "john", parsed.Author)
	assert.Equal(t, []string{"open", "opened"}, parsed.Statuses)
	assert.Empty(t, parsed.Term)
	assert.Equal(t, domain.QueryTypeCombined, parsed.Type)
}

// TestParseQuery_Possessive tests the name's author form.
func TestParseQuery_Possessive(t *testing.T) {
	parsed := ParseQuery("sarah's tickets", parseNow)

	assert.Equal(t, "sarah", parsed.Author)
	assert.Equal(t, "tickets", parsed.Term)
}

// TestParseQuery_RepoWithTerm tests repo scoping with residual text.
func TestParseQuery_RepoWithTerm(t *testing.T) {
	parsed := ParseQuery("repo:api bug", parseNow)

	assert.Equal(t, "api", parsed.Repo)
	assert.Equal(t, "bug", parsed.Term)
	assert.Equal(t, domain.QueryTypeCombined, parsed.Type)
}

// TestParseQuery_PlainText tests that unmarked text stays a text query.
func TestParseQuery_PlainText(t *testing.T) {
	parsed := ParseQuery("TODO", parseNow)

	assert.Equal(t, "TODO", parsed.Term)
	assert.Equal(t, domain.QueryTypeText, parsed.Type)
	assert.Zero(t, parsed.FilterCount())
}

// TestParseQuery_StatusSynonyms tests the synonym table and the verbatim
// fallback for unknown tokens.
func TestParseQuery_StatusSynonyms(t *testing.T) {
	assert.Equal(t, []string{"closed", "done", "resolved"}, ParseQuery("is:closed", parseNow).Statuses)
	assert.Equal(t, []string{"merged"}, ParseQuery("is:merged", parseNow).Statuses)
	assert.Equal(t, []string{"blocked"}, ParseQuery("is:blocked", parseNow).Statuses)
}

// TestParseQuery_SingleFilterTypes tests filter-only classification.
func TestParseQuery_SingleFilterTypes(t *testing.T) {
	assert.Equal(t, domain.QueryTypeAuthor, ParseQuery("@john", parseNow).Type)
	assert.Equal(t, domain.QueryTypeStatus, ParseQuery("is:open", parseNow).Type)
	assert.Equal(t, domain.QueryTypeRepo, ParseQuery("repo:api", parseNow).Type)
	assert.Equal(t, domain.QueryTypeDate, ParseQuery("last week", parseNow).Type)
}

// TestParseQuery_Empty tests the zero query.
func TestParseQuery_Empty(t *testing.T) {
	parsed := ParseQuery("", parseNow)

	assert.Empty(t, parsed.Term)
	assert.Equal(t, domain.QueryTypeText, parsed.Type)
}
