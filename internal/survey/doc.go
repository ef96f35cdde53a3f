// Package survey implements the aggregation and filtering engine for
// compensation-survey benchmarking.
//
// Survey providers report the same variables under different names, label
// specialties inconsistently, and group rows into regions and provider types
// that only roughly line up. The engine reconciles those vocabularies and
// computes percentile summary statistics that stay numerically correct even
// when individual percentile bands are missing from contributing rows.
//
// # Components
//
//   - variables.go: canonical variable names, aliases, and legacy field prefixes
//   - resolver.go: per-row variable resolution across dynamic and legacy row shapes
//   - index.go: multi-dimensional row indexes with data-category inference
//   - filter.go: ordered dimension filtering, including the staff-physician
//     Call Pay special case
//   - aggregate.go: simple and incumbent-weighted percentile aggregation
//   - engine.go: facade wiring indexes, filtering, aggregation, and the
//     result cache together
//
// # Data flow
//
//	rows → BuildIndexes → FilterEngine → row IDs → Aggregator → Summary
//
// Missing data is the normal case, not an error: unmatched filters produce
// empty row sets and unresolvable variables produce nil aggregates. The only
// errors raised are upstream contract violations such as a nil row
// collection.
//
// All computation is synchronous and in-memory; callers own any concurrency
// outside the engine.
package survey
