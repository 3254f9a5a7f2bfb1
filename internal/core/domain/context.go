package domain

import (
	"time"
	"unicode/utf8"
)

// TitleMaxLen is the maximum title length in runes after normalisation.
// Longer titles are truncated deterministically with an ellipsis.
const TitleMaxLen = 200

// SourceType identifies the kind of activity a Context represents.
type SourceType string

// Source type values. One per normalised record kind.
const (
	SourceCodePull    SourceType = "code_pr"
	SourceCodeIssue   SourceType = "code_issue"
	SourceCodeReview  SourceType = "code_review"
	SourceCodeCommit  SourceType = "code_commit"
	SourceTicket      SourceType = "ticket"
	SourceChatMessage SourceType = "chat_message"
)

// AllSourceTypes lists every source type in a stable order.
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceCodePull,
		SourceCodeIssue,
		SourceCodeReview,
		SourceCodeCommit,
		SourceTicket,
		SourceChatMessage,
	}
}

// IsValid reports whether the source type is one of the known values.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceCodePull, SourceCodeIssue, SourceCodeReview,
		SourceCodeCommit, SourceTicket, SourceChatMessage:
		return true
	}
	return false
}

// Immutable reports whether records of this type are append-only at the
// provider. Immutable records skip the update path on re-ingestion.
func (s SourceType) Immutable() bool {
	return s == SourceCodeCommit
}

// Context is the canonical normalised record representing one unit of
// external activity (pull request, ticket, chat message, ...).
type Context struct {
	// Owner is the account the record belongs to.
	Owner string

	// Source tags the kind of record.
	Source SourceType

	// SourceID is the provider-native identifier, unique within
	// (Owner, Source).
	SourceID string

	// Title is the human-readable title, truncated to TitleMaxLen runes.
	Title string

	// Body is the human-readable body text.
	Body string

	// ExternalURL is a deep link back to the provider.
	ExternalURL string

	// Attributes is an open, JSON-serialisable key/value bag. The schema
	// varies per source but always carries the minimal filterable set
	// (state, author, repo/channel, labels).
	Attributes map[string]any

	// CreatedAt and UpdatedAt are provider-reported timestamps, falling
	// back to ingestion time when the provider reports none.
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relevance is computed at query time only and never persisted.
	Relevance int
}

// Key returns the natural composite key for upsert and lookup.
func (c *Context) Key() ContextKey {
	return ContextKey{Owner: c.Owner, Source: c.Source, SourceID: c.SourceID}
}

// ContextKey uniquely identifies a Context.
type ContextKey struct {
	Owner    string
	Source   SourceType
	SourceID string
}

// StringAttr returns a string attribute, or "" when absent or not a string.
func (c *Context) StringAttr(key string) string {
	if c.Attributes == nil {
		return ""
	}
	if v, ok := c.Attributes[key].(string); ok {
		return v
	}
	return ""
}

// TruncateTitle caps a title at TitleMaxLen runes, appending an ellipsis
// when truncation occurs. The result is deterministic for a given input.
func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= TitleMaxLen {
		return title
	}
	runes := []rune(title)
	return string(runes[:TitleMaxLen-1]) + "…"
}
