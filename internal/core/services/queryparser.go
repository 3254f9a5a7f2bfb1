package services

import (
	"strings"
	"time"

	"github.com/worklens/worklens/internal/core/domain"
)

// statusSynonyms expands an is:<token> marker into the attribute values it
// should match. Unknown tokens match themselves verbatim.
var statusSynonyms = map[string][]string{
	"open":   {"open", "opened"},
	"closed": {"closed", "done", "resolved"},
	"merged": {"merged"},
}

// ParseQuery turns free text into structured filters plus a residual term.
// Recognised markers are removed from the text; whatever remains is the
// free-text term. Weeks start on Monday and day boundaries are local
// midnight.
func ParseQuery(query string, now time.Time) domain.ParsedQuery {
	parsed := domain.ParsedQuery{Type: domain.QueryTypeText}

	rest := parseDatePhrases(query, now, &parsed)

	var terms []string
	for _, token := range strings.Fields(rest) {
		switch {
		case strings.HasPrefix(token, "@") && len(token) > 1:
			parsed.Author = strings.TrimSuffix(strings.TrimPrefix(token, "@"), "'s")

		case strings.HasSuffix(token, "'s") && len(token) > 2:
			parsed.Author = strings.TrimSuffix(token, "'s")

		case strings.HasPrefix(strings.ToLower(token), "is:") && len(token) > 3:
			status := strings.ToLower(token[len("is:"):])
			if synonyms, ok := statusSynonyms[status]; ok {
				parsed.Statuses = synonyms
			} else {
				parsed.Statuses = []string{status}
			}

		case strings.HasPrefix(strings.ToLower(token), "repo:") && len(token) > 5:
			parsed.Repo = token[len("repo:"):]

		default:
			terms = append(terms, token)
		}
	}
	parsed.Term = strings.Join(terms, " ")

	parsed.Type = classify(&parsed)
	return parsed
}

// parseDatePhrases strips the first recognised temporal phrase from the
// query and sets the date range. Ranges are half-open [from, to).
func parseDatePhrases(query string, now time.Time, parsed *domain.ParsedQuery) string {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monday := startOfWeek(midnight)

	phrases := []struct {
		text string
		rng  domain.TimeRange
	}{
		{"this week", domain.TimeRange{From: monday, To: monday.AddDate(0, 0, 7)}},
		{"last week", domain.TimeRange{From: monday.AddDate(0, 0, -7), To: monday}},
		{"yesterday", domain.TimeRange{From: midnight.AddDate(0, 0, -1), To: midnight}},
		{"today", domain.TimeRange{From: midnight, To: midnight.AddDate(0, 0, 1)}},
	}

	lower := strings.ToLower(query)
	for _, phrase := range phrases {
		idx := indexWholePhrase(lower, phrase.text)
		if idx < 0 {
			continue
		}
		parsed.DateRange = phrase.rng
		return query[:idx] + query[idx+len(phrase.text):]
	}
	return query
}

// indexWholePhrase finds phrase in s as a whole word, so "today" is not
// matched inside "todays". Returns -1 when no such occurrence exists.
func indexWholePhrase(s, phrase string) int {
	for from := 0; ; {
		idx := strings.Index(s[from:], phrase)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(phrase)
		if (idx == 0 || isWordBreak(s[idx-1])) && (end == len(s) || isWordBreak(s[end])) {
			return idx
		}
		from = idx + 1
	}
}

func isWordBreak(c byte) bool {
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

// startOfWeek returns local midnight of the Monday on or before day.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// classify labels the query for the caller. A single filter with no
// residual text takes that filter's type; any mix of filters, or a filter
// alongside free text, is combined.
func classify(parsed *domain.ParsedQuery) domain.QueryType {
	count := parsed.FilterCount()
	switch {
	case count == 0:
		return domain.QueryTypeText
	case count > 1 || parsed.Term != "":
		return domain.QueryTypeCombined
	case parsed.HasDateFilter():
		return domain.QueryTypeDate
	case parsed.Author != "":
		return domain.QueryTypeAuthor
	case len(parsed.Statuses) > 0:
		return domain.QueryTypeStatus
	default:
		return domain.QueryTypeRepo
	}
}
