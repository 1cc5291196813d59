// Package enrichment turns candidate problem statements into persisted
// enriched records.
//
// The Pipeline processes candidates strictly sequentially, in input order:
//   - a candidate already in the store is skipped without calling the analyzer
//   - otherwise its description is analyzed, merged with the candidate and inserted
//   - a fixed pacing delay separates consecutive items
//
// Per-item failures never escape: ProcessOne always returns an Outcome and
// ProcessBatch always returns a RunSummary. Items that failed are simply not
// stored, so the next run retries them.
package enrichment
