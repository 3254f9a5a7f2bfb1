package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/worklens/worklens/internal/core/domain"
)

// Relevance scores, highest first. Scoring is first-match-wins down the
// ladder, never cumulative.
const (
	scoreExactTitle    = 100
	scoreTitleFull     = 50
	scoreTitleWord     = 40
	scoreBody          = 30
	scoreRepo          = 20
	scoreAuthor        = 15
	scoreOtherAttr     = 10
	scoreFilterOnly    = 1
	attributeRepoKey   = "repo"
	attributeAuthorKey = "author"
)

// scoreContext assigns a relevance score against a non-empty lowercase
// term.
func scoreContext(record *domain.Context, term string) int {
	title := strings.ToLower(record.Title)

	switch {
	case title == term:
		return scoreExactTitle
	case strings.Contains(title, term):
		return scoreTitleFull
	}

	if word, _, _ := strings.Cut(term, " "); word != "" && strings.Contains(title, word) {
		return scoreTitleWord
	}
	if strings.Contains(strings.ToLower(record.Body), term) {
		return scoreBody
	}
	if strings.Contains(strings.ToLower(record.StringAttr(attributeRepoKey)), term) {
		return scoreRepo
	}
	if strings.Contains(strings.ToLower(record.StringAttr(attributeAuthorKey)), term) {
		return scoreAuthor
	}

	for key, value := range record.Attributes {
		if key == attributeRepoKey || key == attributeAuthorKey {
			continue
		}
		serialized := strings.ToLower(fmt.Sprintf("%v", value))
		if strings.Contains(serialized, term) {
			return scoreOtherAttr
		}
	}

	return scoreFilterOnly
}

// rankResults scores every record against the term and orders by relevance
// descending, recency breaking ties. An empty term ranks everything
// equally, leaving pure recency order.
func rankResults(records []domain.Context, term string) []domain.SearchResult {
	lower := strings.ToLower(strings.TrimSpace(term))

	results := make([]domain.SearchResult, 0, len(records))
	for _, record := range records {
		score := scoreFilterOnly
		if lower != "" {
			score = scoreContext(&record, lower)
		}
		record.Relevance = score
		results = append(results, domain.SearchResult{Context: record, Relevance: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].Context.UpdatedAt.After(results[j].Context.UpdatedAt)
	})
	return results
}

// highlight wraps every case-insensitive occurrence of each needle in
// <mark> tags. Needles are applied in order; empty needles are skipped.
func highlight(text string, needles ...string) string {
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		text = markOccurrences(text, needle)
	}
	return text
}

func markOccurrences(text, needle string) string {
	lowerText := strings.ToLower(text)
	lowerNeedle := strings.ToLower(needle)

	var b strings.Builder
	start := 0
	for {
		idx := strings.Index(lowerText[start:], lowerNeedle)
		if idx < 0 {
			b.WriteString(text[start:])
			break
		}
		idx += start
		end := idx + len(needle)
		b.WriteString(text[start:idx])
		b.WriteString("<mark>")
		b.WriteString(text[idx:end])
		b.WriteString("</mark>")
		start = end
	}
	return b.String()
}
