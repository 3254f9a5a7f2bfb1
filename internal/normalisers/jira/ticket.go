// Package jira normalises issue-tracker tickets into Contexts.
package jira

import (
	"time"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure TicketNormaliser implements the interface.
var _ driven.Normaliser = (*TicketNormaliser)(nil)

// TicketNormaliser handles issue-tracker tickets.
type TicketNormaliser struct{}

// NewTicket creates a new ticket normaliser.
func NewTicket() *TicketNormaliser {
	return &TicketNormaliser{}
}

// Kind returns the raw kind this normaliser handles.
func (n *TicketNormaliser) Kind() domain.RawKind {
	return domain.RawKindTicket
}

// Normalise converts a raw ticket into a Context. The project key fills the
// repo attribute so scope filters span tickets too; the author attribute is
// the assignee, falling back to the reporter.
func (n *TicketNormaliser) Normalise(raw *domain.RawItem) (*domain.Context, error) {
	if raw == nil || raw.Ticket == nil {
		return nil, domain.ErrInvalidInput
	}
	ticket := raw.Ticket

	author := ticket.Assignee
	if author == "" {
		author = ticket.Reporter
	}
	if author == "" {
		author = "unknown"
	}

	created := ticket.CreatedAt
	updated := ticket.UpdatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	if updated.IsZero() {
		updated = created
	}

	return &domain.Context{
		Owner:       raw.Owner,
		Source:      domain.SourceTicket,
		SourceID:    ticket.Key,
		Title:       domain.TruncateTitle(ticket.Summary),
		Body:        ticket.Description,
		ExternalURL: ticket.URL,
		Attributes: map[string]any{
			"state":      stateOrUnknown(ticket.Status),
			"author":     author,
			"repo":       stateOrUnknown(ticket.Project),
			"priority":   ticket.Priority,
			"issue_type": ticket.IssueType,
			"reporter":   ticket.Reporter,
			"labels":     ticket.Labels,
		},
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func stateOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
