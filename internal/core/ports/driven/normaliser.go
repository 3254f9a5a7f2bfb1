package driven

import (
	"github.com/worklens/worklens/internal/core/domain"
)

// Normaliser maps one raw item kind onto the canonical Context shape.
// Normalisers are pure: no I/O, deterministic output, and malformed or
// missing fields degrade to defaults instead of failing.
type Normaliser interface {
	// Kind returns the raw item kind this normaliser handles.
	Kind() domain.RawKind

	// Normalise converts a raw item into a Context. Returns
	// domain.ErrInvalidInput when the payload pointer for the kind is
	// nil.
	Normalise(raw *domain.RawItem) (*domain.Context, error)
}

// NormaliserRegistry dispatches raw items to normalisers by kind. The
// registry covers every RawKind; an unknown kind is a programming error.
type NormaliserRegistry interface {
	// Normalise resolves the normaliser for raw.Kind and applies it.
	Normalise(raw *domain.RawItem) (*domain.Context, error)
}
