// Package assignment implements the spot-to-language-block decision
// pipeline.
//
// Per spot, the pipeline runs: exclusion pre-checks, the priority-
// ordered sector business rules (which can short-circuit everything),
// schedule and overlap resolution via the grid service, intent
// classification, a narrow pattern-based second pass over indifferent
// results, and finally an idempotent delete-then-insert write of the
// one assignment row.
//
// Recoverable business outcomes (excluded spots, missing grid
// coverage, indifferent buys) are modeled as data on the Decision and
// Result types. Errors are reserved for storage failures and are
// handled at the batch orchestrator boundary.
package assignment
