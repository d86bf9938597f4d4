// Package contract provides interfaces and shared utilities for the
// auditpulse internal architecture.
package contract

import (
	"github.com/retailops/auditpulse/schema"
)

// ResultStore defines the persistence surface for scored results.
// This allows the store layer to be mocked for testing.
//
// All writes are natural-key upserts so re-ingestion of the same wave is
// idempotent and safe to run concurrently with readers: no delete-then-
// insert window except the documented full-replace of qualitative
// feedback, which happens inside one transaction.
type ResultStore interface {
	// UpsertStoreWave persists one store-wave result: the store row, its
	// kpi_scores row, journey_scores per section, granular_scores per item
	// and the qualitative feedback replacement.
	UpsertStoreWave(result *schema.StoreWaveResult) error

	// ReplaceActionPlans replaces a store's generated action plans and
	// initializes one blank approvals row per plan.
	ReplaceActionPlans(siteCode string, items []schema.ActionPlanItem) error

	// GetStatus returns row counts for the configured backend.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}
