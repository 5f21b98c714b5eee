package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"vinstats/pkg/contracts/domain"
)

const sheetName = "Queries"

// DefaultFilename is the suggested export name when no organization filter
// is active.
const DefaultFilename = "AH_SVE_ORGANIZACIJE.xlsx"

// XLSXContentType is the MIME type for the workbook bytes.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook renders the deduplicated rows as an in-memory XLSX workbook:
// a header row followed by one row per record.
func WriteWorkbook(rows []domain.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := domain.ExportColumns()
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &cells); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		values := row.Values()
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SuggestedFilename derives the download name from the organization filter.
// Legal-form suffixes and separators are stripped the same way the legacy
// exports named their files.
func SuggestedFilename(orgFilter string) string {
	name := strings.ReplaceAll(orgFilter, " d.d.", "")
	name = strings.ReplaceAll(name, " d.d", "")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ".", "")
	if name == "" {
		return DefaultFilename
	}
	return fmt.Sprintf("AH_%s.xlsx", name)
}
