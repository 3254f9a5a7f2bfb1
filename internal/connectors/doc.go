// Package connectors contains the provider client adapters.
//
// Each subpackage wraps one vendor SDK behind the driven.Connector
// contract: a lazily-evaluated, cursor-paginated fetch stream plus
// provider-specific error mapping onto the domain taxonomy. Pagination is
// sequential within a stream (cursor dependency); all outbound calls go
// through the shared executor for concurrency bounding and retry.
package connectors
