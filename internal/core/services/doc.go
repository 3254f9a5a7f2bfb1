// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): sync orchestration, credential
// refresh, query parsing and ranking, integration lifecycle, and
// the background scheduler.
package services
