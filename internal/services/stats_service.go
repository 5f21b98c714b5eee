package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vinstats/internal/exporter"
	"vinstats/internal/files"
	"vinstats/internal/infrastructure"
	"vinstats/internal/ingest"
	"vinstats/internal/stats"
	"vinstats/pkg/contracts/domain"
)

// PreviewLimit caps the number of rows embedded in a summary response. The
// full row set is only materialized by the export.
const PreviewLimit = 200

// StatsFilter selects and scopes the records for a summary or export.
type StatsFilter struct {
	// Files lists the source file names to load; empty means every file in
	// the data directory.
	Files []string

	// Organization filters by exact organization name; empty means all.
	Organization string

	// From and To bound the inclusive calendar date range.
	From time.Time
	To   time.Time
}

// CatalogOverview describes one loaded file selection before any filtering.
type CatalogOverview struct {
	Organizations []string  `json:"organizations"`
	MinDate       time.Time `json:"min_date,omitempty"`
	MaxDate       time.Time `json:"max_date,omitempty"`
	RecordCount   int       `json:"record_count"`
	Warnings      []string  `json:"warnings,omitempty"`
}

// Summary is the aggregation result shaped for the API: totals, a bounded
// row preview and the two chart series.
type Summary struct {
	Count     int                `json:"count"`
	NoData    bool               `json:"no_data"`
	Rows      []domain.ExportRow `json:"rows"`
	Truncated bool               `json:"truncated"`
	Histogram domain.ChartSeries `json:"histogram"`
	TopVINs   domain.ChartSeries `json:"top_vins"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// StatsService wires file discovery, the catalog store and the aggregator
// into the operations the transport layer exposes.
type StatsService struct {
	discovery *files.Discovery
	store     *ingest.Store
	metrics   *infrastructure.Metrics
	logger    *slog.Logger
}

// NewStatsService creates a stats service. metrics may be nil in tests.
func NewStatsService(discovery *files.Discovery, store *ingest.Store, metrics *infrastructure.Metrics, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		discovery: discovery,
		store:     store,
		metrics:   metrics,
		logger:    logger,
	}
}

// Files lists the selectable source files in the data directory.
func (s *StatsService) Files(ctx context.Context) ([]files.FileInfo, error) {
	found, err := s.discovery.FindDataFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list data files: %w", err)
	}
	return found, nil
}

// Organizations loads the selected files and returns the catalog overview:
// the distinct organization names, the observed date span and any load
// warnings.
func (s *StatsService) Organizations(ctx context.Context, fileNames []string) (*CatalogOverview, error) {
	catalog, err := s.loadCatalog(ctx, fileNames)
	if err != nil {
		return nil, err
	}
	return &CatalogOverview{
		Organizations: catalog.OrganizationNames,
		MinDate:       catalog.MinDate,
		MaxDate:       catalog.MaxDate,
		RecordCount:   len(catalog.Records),
		Warnings:      catalog.Warnings,
	}, nil
}

// Summary aggregates the selected files under the filter and returns the
// counts, a bounded row preview and both chart series.
func (s *StatsService) Summary(ctx context.Context, filter StatsFilter) (*Summary, error) {
	if filter.From.After(filter.To) {
		return nil, ErrInvalidDateRange
	}

	catalog, err := s.loadCatalog(ctx, filter.Files)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.Queries.Inc()
	}

	if catalog.Empty() {
		return &Summary{NoData: true, Warnings: catalog.Warnings}, nil
	}

	result := stats.Aggregate(catalog.Records, filter.Organization, filter.From, filter.To)

	summary := &Summary{
		Count:     len(result.Rows),
		Histogram: stats.HistogramSeries(result.PerDay),
		TopVINs:   stats.TopVINSeries(result.TopVINs),
		Warnings:  catalog.Warnings,
	}
	summary.Rows = result.Rows
	if len(summary.Rows) > PreviewLimit {
		summary.Rows = summary.Rows[:PreviewLimit]
		summary.Truncated = true
	}

	s.logger.InfoContext(ctx, "summary computed",
		slog.String("organization", filter.Organization),
		slog.Int("rows", summary.Count),
		slog.Bool("truncated", summary.Truncated))
	return summary, nil
}

// Export aggregates under the filter and renders the full deduplicated row
// set as an XLSX workbook. It returns the suggested download name and the
// workbook bytes.
func (s *StatsService) Export(ctx context.Context, filter StatsFilter) (string, []byte, error) {
	if filter.From.After(filter.To) {
		return "", nil, ErrInvalidDateRange
	}

	catalog, err := s.loadCatalog(ctx, filter.Files)
	if err != nil {
		return "", nil, err
	}

	result := stats.Aggregate(catalog.Records, filter.Organization, filter.From, filter.To)
	data, err := exporter.WriteWorkbook(result.Rows)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	if s.metrics != nil {
		s.metrics.Exports.Inc()
	}

	filename := exporter.SuggestedFilename(filter.Organization)
	s.logger.InfoContext(ctx, "export generated",
		slog.String("filename", filename),
		slog.Int("rows", len(result.Rows)),
		slog.Int("bytes", len(data)))
	return filename, data, nil
}

// Reload drops the cached catalogs so the next request re-reads the data
// directory.
func (s *StatsService) Reload(ctx context.Context) {
	s.store.Invalidate()
	s.logger.InfoContext(ctx, "catalog cache invalidated")
}

// loadCatalog resolves the requested file names against the data directory
// and loads them through the memoizing store. Empty fileNames selects every
// discovered file.
func (s *StatsService) loadCatalog(ctx context.Context, fileNames []string) (*ingest.Catalog, error) {
	available, err := s.discovery.FindDataFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list data files: %w", err)
	}
	if len(available) == 0 {
		return nil, ErrNoFiles
	}

	var paths []string
	if len(fileNames) == 0 {
		for _, f := range available {
			paths = append(paths, f.Path)
		}
	} else {
		byName := make(map[string]string, len(available))
		for _, f := range available {
			byName[f.Name] = f.Path
		}
		for _, name := range fileNames {
			path, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownFile, name)
			}
			paths = append(paths, path)
		}
	}

	catalog, err := s.store.Get(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog, nil
}
