// Package normalisers maps provider-shaped raw items onto the canonical
// Context shape.
//
// Each provider package holds one normaliser per raw kind. Normalisers are
// pure functions: deterministic title truncation, a stable minimal
// attribute set per source (state, author, repo/channel, labels,
// timestamps) so query-time filtering has fields to match against, and
// defaults ("", "unknown") for malformed or missing provider fields.
//
// The Registry dispatches on the RawItem kind tag exhaustively; adding a
// source kind means adding a variant, a normaliser, and a switch arm.
package normalisers
