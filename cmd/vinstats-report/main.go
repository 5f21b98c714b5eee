// Command vinstats-report generates an XLSX query report from the command
// line, without running the server.
//
// Usage:
//
//	vinstats-report -data ./data -org "Some Org d.d." -from 2024-01-01 -to 2024-12-31
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"vinstats/internal/exporter"
	"vinstats/internal/files"
	"vinstats/internal/ingest"
	"vinstats/internal/stats"
)

const dateLayout = "2006-01-02"

func main() {
	dataDir := flag.String("data", "data", "directory with JSON event logs and CSV order exports")
	org := flag.String("org", "", "organization name filter (empty for all organizations)")
	from := flag.String("from", "", "start date, YYYY-MM-DD (defaults to the earliest record)")
	to := flag.String("to", "", "end date, YYYY-MM-DD (defaults to the latest record)")
	out := flag.String("out", "", "output path (defaults to the suggested filename)")
	flag.Parse()

	if err := run(*dataDir, *org, *from, *to, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dataDir, org, fromArg, toArg, outArg string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	discovery := files.NewDiscovery(dataDir)
	paths, err := discovery.Paths()
	if err != nil {
		return fmt.Errorf("failed to list data files: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .json or .csv files found in %s", dataDir)
	}

	loader := ingest.NewLoader(logger)
	catalog, err := loader.Load(context.Background(), paths)
	if err != nil {
		return fmt.Errorf("failed to load data files: %w", err)
	}
	for _, w := range catalog.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if catalog.Empty() {
		return fmt.Errorf("no usable records in %s", dataDir)
	}

	from, to, err := resolveRange(catalog, fromArg, toArg)
	if err != nil {
		return err
	}
	if from.After(to) {
		return fmt.Errorf("-from %s is after -to %s", from.Format(dateLayout), to.Format(dateLayout))
	}

	result := stats.Aggregate(catalog.Records, org, from, to)
	fmt.Printf("Loaded %d records from %d files, %d rows after filtering\n",
		len(catalog.Records), len(paths), len(result.Rows))

	data, err := exporter.WriteWorkbook(result.Rows)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}

	outPath := outArg
	if outPath == "" {
		outPath = exporter.SuggestedFilename(org)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(data))
	printTopVINs(result)
	return nil
}

// resolveRange fills missing -from/-to flags from the catalog's observed
// date span.
func resolveRange(catalog *ingest.Catalog, fromArg, toArg string) (time.Time, time.Time, error) {
	from := catalog.MinDate
	to := catalog.MaxDate

	if fromArg != "" {
		parsed, err := time.Parse(dateLayout, fromArg)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -from date %q: %w", fromArg, err)
		}
		from = parsed.UTC()
	}
	if toArg != "" {
		parsed, err := time.Parse(dateLayout, toArg)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -to date %q: %w", toArg, err)
		}
		to = parsed.UTC()
	}
	return from, to, nil
}

func printTopVINs(result stats.Result) {
	if len(result.TopVINs) == 0 {
		return
	}
	fmt.Println("Top VINs:")
	for i, vc := range result.TopVINs {
		fmt.Printf("  %d. %s (%d)\n", i+1, vc.VIN, vc.Count)
	}
}
