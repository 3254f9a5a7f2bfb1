// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Connector: fetches raw items from one provider
//   - Normaliser / NormaliserRegistry: raw item → canonical Context
//   - ContextStore: Context persistence with keyed upsert
//   - IntegrationStore: provider connection persistence
//   - SyncStateStore: per-owner sync timestamp persistence
//   - CredentialProvider: active credential lookup with transparent refresh
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
//   - StateTokenStore: only needed when the OAuth connect endpoints are
//     mounted
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
