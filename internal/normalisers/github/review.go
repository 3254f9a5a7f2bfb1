package github

import (
	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure ReviewNormaliser implements the interface.
var _ driven.Normaliser = (*ReviewNormaliser)(nil)

// ReviewNormaliser handles pull requests the account reviewed.
type ReviewNormaliser struct{}

// NewReview creates a new review normaliser.
func NewReview() *ReviewNormaliser {
	return &ReviewNormaliser{}
}

// Kind returns the raw kind this normaliser handles.
func (n *ReviewNormaliser) Kind() domain.RawKind {
	return domain.RawKindReview
}

// Normalise converts a reviewed pull request into a Context.
func (n *ReviewNormaliser) Normalise(raw *domain.RawItem) (*domain.Context, error) {
	if raw == nil || raw.Review == nil {
		return nil, domain.ErrInvalidInput
	}
	review := raw.Review

	created, updated := normaliseTimes(review.CreatedAt, review.UpdatedAt)

	return &domain.Context{
		Owner:       raw.Owner,
		Source:      domain.SourceCodeReview,
		SourceID:    review.SourceID,
		Title:       domain.TruncateTitle(review.Title),
		Body:        review.Body,
		ExternalURL: review.URL,
		Attributes: map[string]any{
			"state":  fallback(review.State, "unknown"),
			"author": fallback(review.Author, "unknown"),
			"repo":   fallback(review.Repo, "unknown"),
			"number": review.Number,
			"role":   "reviewer",
		},
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
