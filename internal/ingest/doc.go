// Package ingest reads the raw VIN lookup corpus into canonical records.
//
// Two source schemas are supported: JSON event logs (arrays of API call
// records) and legacy CSV order exports (`;`-delimited, Windows-1250
// encoded). Both normalize into domain.QueryRecord; a catalog bundles the
// records for one file selection with its derived metadata, and a store
// memoizes catalogs per selection.
package ingest
