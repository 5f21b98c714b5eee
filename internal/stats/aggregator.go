package stats

import (
	"sort"
	"time"

	"vinstats/internal/ingest"
	"vinstats/pkg/contracts/domain"
)

// TopVINLimit caps the VIN frequency ranking.
const TopVINLimit = 5

// Result holds the outputs of one aggregation pass. It is rebuilt per query
// and owned entirely by the caller.
type Result struct {
	// Rows is the deduplicated export row set, in first-seen order.
	Rows []domain.ExportRow

	// PerDay counts retained records per calendar date (UTC midnight keys).
	PerDay map[time.Time]int

	// TopVINs ranks the most frequent VINs among retained records, highest
	// first, at most TopVINLimit entries.
	TopVINs []domain.VINCount
}

// dedupKey identifies logically identical events: the raw query_vin and
// time_stamp strings, deliberately without any VIN normalization.
type dedupKey struct {
	vin       string
	timestamp string
}

// Aggregate filters records by organization name and inclusive date range,
// deduplicates them and computes the per-day histogram plus the VIN ranking.
// Records are visited in catalog order and the first record of each dedup key
// wins; later duplicates contribute nothing, not even to the counts. The
// caller guarantees from <= to.
func Aggregate(records []domain.QueryRecord, orgName string, from, to time.Time) Result {
	res := Result{PerDay: make(map[time.Time]int)}
	seen := make(map[dedupKey]struct{})
	vinCounts := make(map[string]int)
	vinOrder := make(map[string]int)

	for _, rec := range records {
		if orgName != "" && rec.OrganizationName != orgName {
			continue
		}
		if rec.TimeStamp == "" {
			continue
		}
		// Re-validate the timestamp; a record that stops parsing here is
		// silently excluded rather than failing the whole query.
		ts, err := ingest.ParseTimestamp(rec.TimeStamp)
		if err != nil {
			continue
		}
		day := ingest.DateOf(ts)
		if day.Before(from) || day.After(to) {
			continue
		}

		key := dedupKey{vin: rec.QueryVIN, timestamp: rec.TimeStamp}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		res.Rows = append(res.Rows, domain.ExportRow{
			UserID:           rec.UserID,
			OrganizationID:   rec.OrganizationID,
			OrganizationName: rec.OrganizationName,
			QueryVIN:         rec.QueryVIN,
			TimeStamp:        rec.TimeStamp,
		})
		res.PerDay[day]++

		// Empty VINs stay in the rows and the histogram but not the ranking.
		if rec.QueryVIN != "" {
			if _, ok := vinOrder[rec.QueryVIN]; !ok {
				vinOrder[rec.QueryVIN] = len(vinOrder)
			}
			vinCounts[rec.QueryVIN]++
		}
	}

	res.TopVINs = rankVINs(vinCounts, vinOrder)
	return res
}

// rankVINs orders VINs by descending count, breaking ties by first-seen
// order, and truncates to TopVINLimit.
func rankVINs(counts map[string]int, order map[string]int) []domain.VINCount {
	ranked := make([]domain.VINCount, 0, len(counts))
	for vin, n := range counts {
		ranked = append(ranked, domain.VINCount{VIN: vin, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return order[ranked[i].VIN] < order[ranked[j].VIN]
	})
	if len(ranked) > TopVINLimit {
		ranked = ranked[:TopVINLimit]
	}
	return ranked
}
