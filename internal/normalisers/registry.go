package normalisers

import (
	"fmt"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/normalisers/github"
	"github.com/worklens/worklens/internal/normalisers/jira"
	"github.com/worklens/worklens/internal/normalisers/slack"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry holds one normaliser per raw kind and dispatches on the tag.
type Registry struct {
	pull    driven.Normaliser
	issue   driven.Normaliser
	review  driven.Normaliser
	commit  driven.Normaliser
	ticket  driven.Normaliser
	message driven.Normaliser
}

// NewRegistry creates a registry covering every raw kind.
func NewRegistry() *Registry {
	return &Registry{
		pull:    github.NewPull(),
		issue:   github.NewIssue(),
		review:  github.NewReview(),
		commit:  github.NewCommit(),
		ticket:  jira.NewTicket(),
		message: slack.NewMessage(),
	}
}

// Normalise converts a raw item into a Context by kind.
func (r *Registry) Normalise(raw *domain.RawItem) (*domain.Context, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	switch raw.Kind {
	case domain.RawKindPull:
		return r.pull.Normalise(raw)
	case domain.RawKindIssue:
		return r.issue.Normalise(raw)
	case domain.RawKindReview:
		return r.review.Normalise(raw)
	case domain.RawKindCommit:
		return r.commit.Normalise(raw)
	case domain.RawKindTicket:
		return r.ticket.Normalise(raw)
	case domain.RawKindChatMessage:
		return r.message.Normalise(raw)
	default:
		return nil, fmt.Errorf("%w: unknown raw kind %d", domain.ErrInvalidInput, raw.Kind)
	}
}
