// Package stats aggregates canonical records into the deduplicated export
// row set, the per-day histogram and the top-VIN ranking, and shapes the
// latter two into renderable chart series.
package stats
