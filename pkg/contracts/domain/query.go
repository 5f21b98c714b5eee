package domain

// QueryRecord is the canonical form of one VIN lookup event after ingestion,
// regardless of whether it came from a JSON event log or a CSV order export.
// String fields may be empty when the source omitted them; TimeStamp is always
// present for retained records and keeps the raw canonical string form
// `YYYY-MM-DDTHH:MM:SS` with an optional numeric UTC offset or `Z` suffix.
type QueryRecord struct {
	UserID           string `json:"user_id,omitempty"`
	OrganizationID   string `json:"organization_id,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
	QueryVIN         string `json:"query_vin,omitempty"`
	TimeStamp        string `json:"time_stamp"`

	// ResponseType is carried through verbatim for event-log records and is
	// always nil for CSV-origin records.
	ResponseType interface{} `json:"response_type,omitempty"`
}

// ExportRow is one deduplicated row of the spreadsheet export. ResponseType is
// intentionally absent; it is dropped during aggregation.
type ExportRow struct {
	UserID           string `json:"user_id"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	QueryVIN         string `json:"query_vin"`
	TimeStamp        string `json:"time_stamp"`
}

// ExportColumns returns the spreadsheet header in export order.
func ExportColumns() []string {
	return []string{"user_id", "organization_id", "organization_name", "query_vin", "time_stamp"}
}

// Values returns the row's cells in the same order as ExportColumns.
func (r ExportRow) Values() []interface{} {
	return []interface{}{r.UserID, r.OrganizationID, r.OrganizationName, r.QueryVIN, r.TimeStamp}
}

// VINCount is one entry of the VIN frequency ranking.
type VINCount struct {
	VIN   string `json:"vin"`
	Count int    `json:"count"`
}
