// Package github normalises code-hosting raw items (pull requests, issues,
// reviews, commits) into Contexts.
package github

import (
	"time"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure PullNormaliser implements the interface.
var _ driven.Normaliser = (*PullNormaliser)(nil)

// PullNormaliser handles authored pull requests.
type PullNormaliser struct{}

// NewPull creates a new pull request normaliser.
func NewPull() *PullNormaliser {
	return &PullNormaliser{}
}

// Kind returns the raw kind this normaliser handles.
func (n *PullNormaliser) Kind() domain.RawKind {
	return domain.RawKindPull
}

// Normalise converts a raw pull request into a Context.
func (n *PullNormaliser) Normalise(raw *domain.RawItem) (*domain.Context, error) {
	if raw == nil || raw.Pull == nil {
		return nil, domain.ErrInvalidInput
	}
	pull := raw.Pull

	state := fallback(pull.State, "unknown")
	if pull.Merged {
		state = "merged"
	} else if pull.Draft {
		state = "draft"
	}

	created, updated := normaliseTimes(pull.CreatedAt, pull.UpdatedAt)

	return &domain.Context{
		Owner:       raw.Owner,
		Source:      domain.SourceCodePull,
		SourceID:    pull.SourceID,
		Title:       domain.TruncateTitle(pull.Title),
		Body:        pull.Body,
		ExternalURL: pull.URL,
		Attributes: map[string]any{
			"state":  state,
			"author": fallback(pull.Author, "unknown"),
			"repo":   fallback(pull.Repo, "unknown"),
			"number": pull.Number,
			"labels": pull.Labels,
			"draft":  pull.Draft,
			"merged": pull.Merged,
		},
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// fallback returns s, or def when s is empty.
func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// normaliseTimes applies the ingestion-time fallback for missing provider
// timestamps.
func normaliseTimes(created, updated time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	return created, updated
}
