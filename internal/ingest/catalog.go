package ingest

import (
	"sort"
	"time"

	"vinstats/pkg/contracts/domain"
)

// Catalog is the read-only snapshot of canonical records built from one file
// selection, plus the metadata derived at load time. It is never mutated
// after construction; a changed file selection produces a fresh catalog.
type Catalog struct {
	Records []domain.QueryRecord

	// OrganizationNames is the sorted set of distinct non-empty
	// organization_name values across all records.
	OrganizationNames []string

	// MinDate and MaxDate span the calendar dates observed during loading;
	// both are zero when no record carried a parseable timestamp.
	MinDate time.Time
	MaxDate time.Time

	// Warnings lists the files that could not be read or decoded. They are
	// diagnostics, not failures.
	Warnings []string
}

func newCatalog(state *loadState) *Catalog {
	seen := make(map[string]struct{})
	var names []string
	for _, rec := range state.records {
		if rec.OrganizationName == "" {
			continue
		}
		if _, ok := seen[rec.OrganizationName]; ok {
			continue
		}
		seen[rec.OrganizationName] = struct{}{}
		names = append(names, rec.OrganizationName)
	}
	sort.Strings(names)

	return &Catalog{
		Records:           state.records,
		OrganizationNames: names,
		MinDate:           state.minDate,
		MaxDate:           state.maxDate,
		Warnings:          state.warnings,
	}
}

// Empty reports whether the catalog holds no records. An empty catalog is the
// "no data" state, not an error.
func (c *Catalog) Empty() bool {
	return len(c.Records) == 0
}
