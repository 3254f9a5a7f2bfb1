package domain

import "time"

// QueryType labels the dominant filter kind detected in a query, returned to
// the caller for UI labelling.
type QueryType string

// Query type values.
const (
	QueryTypeText     QueryType = "text"
	QueryTypeDate     QueryType = "date"
	QueryTypeAuthor   QueryType = "author"
	QueryTypeStatus   QueryType = "status"
	QueryTypeRepo     QueryType = "repo"
	QueryTypeCombined QueryType = "combined"
)

// TimeRange is a half-open [From, To) interval.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// IsZero reports whether the range is unset.
func (r TimeRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// ParsedQuery is the structured form of a free-text search query: the
// recognised filters plus whatever text remains after stripping them.
type ParsedQuery struct {
	// Term is the residual free text. Empty when filters consumed the
	// whole query; text matching is then skipped.
	Term string `json:"term"`

	// DateRange is set when a temporal keyword was recognised.
	DateRange TimeRange `json:"date_range,omitempty"`

	// Author is set by "@name" or "name's" markers.
	Author string `json:"author,omitempty"`

	// Statuses are the acceptable states after synonym expansion of an
	// "is:<token>" marker.
	Statuses []string `json:"statuses,omitempty"`

	// Repo is a substring filter against the repo attribute.
	Repo string `json:"repo,omitempty"`

	// Type classifies the query for the caller.
	Type QueryType `json:"type"`
}

// HasDateFilter reports whether a temporal filter was recognised.
func (q *ParsedQuery) HasDateFilter() bool { return !q.DateRange.IsZero() }

// HasAttributeFilters reports whether any filter lives in the attribute
// bag rather than a store column. Such filters are matched in memory, so
// the store read must not be truncated before they run.
func (q *ParsedQuery) HasAttributeFilters() bool {
	return q.Author != "" || len(q.Statuses) > 0 || q.Repo != ""
}

// FilterCount returns how many distinct filter kinds were recognised.
func (q *ParsedQuery) FilterCount() int {
	n := 0
	if q.HasDateFilter() {
		n++
	}
	if q.Author != "" {
		n++
	}
	if len(q.Statuses) > 0 {
		n++
	}
	if q.Repo != "" {
		n++
	}
	return n
}

// SearchResult is one ranked hit. Title and Body carry highlight markers
// around matched substrings.
type SearchResult struct {
	Context   Context `json:"context"`
	Relevance int     `json:"relevance"`
}

// SearchResponse is the full answer to a search call.
type SearchResponse struct {
	Results   []SearchResult `json:"results"`
	QueryType QueryType      `json:"query_type"`
	Parsed    ParsedQuery    `json:"filters"`
}

// ContextFilter narrows a store read. Zero fields are ignored.
type ContextFilter struct {
	Owner     string
	Sources   []SourceType
	DateRange TimeRange
	Limit     int
}
