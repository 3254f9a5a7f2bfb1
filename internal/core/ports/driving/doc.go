// Package driving defines the interfaces that callers use to drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture:
// the CLI and HTTP adapters depend on them, and core services implement
// them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driving
