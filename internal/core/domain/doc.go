// Package domain contains the core business entities for WorkLens.
// These types have no dependencies on adapters or external services.
package domain
