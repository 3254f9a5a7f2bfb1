package github

import (
	"strings"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure CommitNormaliser implements the interface.
var _ driven.Normaliser = (*CommitNormaliser)(nil)

// CommitNormaliser handles commits from the repository listing. Commits are
// immutable at the provider, so the upsert layer never updates their rows.
type CommitNormaliser struct{}

// NewCommit creates a new commit normaliser.
func NewCommit() *CommitNormaliser {
	return &CommitNormaliser{}
}

// Kind returns the raw kind this normaliser handles.
func (n *CommitNormaliser) Kind() domain.RawKind {
	return domain.RawKindCommit
}

// Normalise converts a raw commit into a Context. The title is the first
// line of the commit message.
func (n *CommitNormaliser) Normalise(raw *domain.RawItem) (*domain.Context, error) {
	if raw == nil || raw.Commit == nil {
		return nil, domain.ErrInvalidInput
	}
	commit := raw.Commit

	title := commit.Message
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}

	created, updated := normaliseTimes(commit.CreatedAt, commit.CreatedAt)

	sha := commit.SHA
	short := sha
	if len(short) > 7 {
		short = short[:7]
	}

	return &domain.Context{
		Owner:       raw.Owner,
		Source:      domain.SourceCodeCommit,
		SourceID:    sha,
		Title:       domain.TruncateTitle(title),
		Body:        commit.Message,
		ExternalURL: commit.URL,
		Attributes: map[string]any{
			"author":    fallback(commit.Author, "unknown"),
			"repo":      fallback(commit.Repo, "unknown"),
			"sha":       short,
			"additions": commit.Additions,
			"deletions": commit.Deletions,
		},
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
