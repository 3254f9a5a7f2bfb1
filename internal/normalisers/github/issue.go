package github

import (
	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure IssueNormaliser implements the interface.
var _ driven.Normaliser = (*IssueNormaliser)(nil)

// IssueNormaliser handles code-hosting issues the account is involved in.
type IssueNormaliser struct{}

// NewIssue creates a new issue normaliser.
func NewIssue() *IssueNormaliser {
	return &IssueNormaliser{}
}

// Kind returns the raw kind this normaliser handles.
func (n *IssueNormaliser) Kind() domain.RawKind {
	return domain.RawKindIssue
}

// Normalise converts a raw issue into a Context.
func (n *IssueNormaliser) Normalise(raw *domain.RawItem) (*domain.Context, error) {
	if raw == nil || raw.Issue == nil {
		return nil, domain.ErrInvalidInput
	}
	issue := raw.Issue

	created, updated := normaliseTimes(issue.CreatedAt, issue.UpdatedAt)

	return &domain.Context{
		Owner:       raw.Owner,
		Source:      domain.SourceCodeIssue,
		SourceID:    issue.SourceID,
		Title:       domain.TruncateTitle(issue.Title),
		Body:        issue.Body,
		ExternalURL: issue.URL,
		Attributes: map[string]any{
			"state":    fallback(issue.State, "unknown"),
			"author":   fallback(issue.Author, "unknown"),
			"repo":     fallback(issue.Repo, "unknown"),
			"number":   issue.Number,
			"labels":   issue.Labels,
			"comments": issue.Comments,
		},
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
