package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"vinstats/pkg/contracts/domain"
)

// csvDateLayout is the only accepted order_date form in CSV exports.
const csvDateLayout = "2006-01-02 15:04:05"

// Loader reads JSON event logs and CSV order exports into canonical records.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader with the given logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// loadState accumulates the running totals of one Load call: the record list,
// the organization id-to-name table, the observed date span and the
// file-level warnings. One instance per call; nothing is shared across loads.
type loadState struct {
	records  []domain.QueryRecord
	orgNames map[string]string
	minDate  time.Time
	maxDate  time.Time
	warnings []string
}

func (s *loadState) observeDate(d time.Time) {
	if s.minDate.IsZero() || d.Before(s.minDate) {
		s.minDate = d
	}
	if s.maxDate.IsZero() || d.After(s.maxDate) {
		s.maxDate = d
	}
}

func (s *loadState) warnf(format string, args ...interface{}) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

// Load reads the given files into a catalog. Files are processed in
// lexicographically sorted base-name order; this order is load-bearing
// because CSV organization names resolve against whatever id-to-name pairs
// earlier files have taught. File-level problems become warnings on the
// catalog, never a failed load.
func (l *Loader) Load(ctx context.Context, paths []string) (*Catalog, error) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Slice(sorted, func(i, j int) bool {
		return filepath.Base(sorted[i]) < filepath.Base(sorted[j])
	})

	state := &loadState{orgNames: make(map[string]string)}
	for _, path := range sorted {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			l.loadJSON(ctx, state, path)
		case ".csv":
			l.loadCSV(ctx, state, path)
		}
	}

	l.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("files", len(sorted)),
		slog.Int("records", len(state.records)),
		slog.Int("warnings", len(state.warnings)))

	return newCatalog(state), nil
}

// loadJSON ingests one event-log file: an array of record objects. Records
// without a parseable time_stamp are skipped silently; the rest are appended
// unmodified, teaching the id-to-name table along the way.
func (l *Loader) loadJSON(ctx context.Context, state *loadState, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		state.warnf("cannot read JSON file %s: %v", filepath.Base(path), err)
		return
	}

	var records []domain.QueryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		state.warnf("JSON file %s is not a list of records: %v", filepath.Base(path), err)
		return
	}

	kept := 0
	for _, rec := range records {
		if rec.TimeStamp == "" {
			continue
		}
		ts, err := ParseTimestamp(rec.TimeStamp)
		if err != nil {
			continue
		}
		state.observeDate(DateOf(ts))

		if rec.OrganizationID != "" && rec.OrganizationName != "" {
			if _, known := state.orgNames[rec.OrganizationID]; !known {
				state.orgNames[rec.OrganizationID] = rec.OrganizationName
			}
		}

		state.records = append(state.records, rec)
		kept++
	}

	l.logger.DebugContext(ctx, "loaded JSON file",
		slog.String("file", filepath.Base(path)),
		slog.Int("records", kept))
}

// loadCSV ingests one order export: `;`-delimited, Windows-1250 encoded, with
// columns vin, order_date, organisation and order_client. Rows missing a vin
// or order_date, or with an order_date outside the exact expected layout, are
// skipped silently. Organization names resolve against the id-to-name table
// as it exists when the row is read; unresolved ids fall back to the raw id.
func (l *Loader) loadCSV(ctx context.Context, state *loadState, path string) {
	f, err := os.Open(path)
	if err != nil {
		state.warnf("cannot read CSV file %s: %v", filepath.Base(path), err)
		return
	}
	defer f.Close()

	reader := csv.NewReader(transform.NewReader(f, charmap.Windows1250.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		state.warnf("cannot read CSV file %s: %v", filepath.Base(path), err)
		return
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	kept := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Rows read so far stay in the catalog; the rest of the file is lost.
			state.warnf("cannot read CSV file %s: %v", filepath.Base(path), err)
			break
		}

		vin := field(row, "vin")
		orderDate := field(row, "order_date")
		if vin == "" || orderDate == "" {
			continue
		}

		ts, err := time.Parse(csvDateLayout, orderDate)
		if err != nil {
			continue
		}
		state.observeDate(DateOf(ts))

		orgID := field(row, "organisation")
		orgName, ok := state.orgNames[orgID]
		if !ok {
			orgName = orgID
		}

		// CSV source is treated as always UTC.
		state.records = append(state.records, domain.QueryRecord{
			UserID:           field(row, "order_client"),
			OrganizationID:   orgID,
			OrganizationName: orgName,
			QueryVIN:         vin,
			TimeStamp:        ts.Format(layoutNaive) + "+0000",
		})
		kept++
	}

	l.logger.DebugContext(ctx, "loaded CSV file",
		slog.String("file", filepath.Base(path)),
		slog.Int("records", kept))
}
