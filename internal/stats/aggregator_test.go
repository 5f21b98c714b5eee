package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinstats/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(org, vin, ts string) domain.QueryRecord {
	return domain.QueryRecord{
		OrganizationName: org,
		QueryVIN:         vin,
		TimeStamp:        ts,
	}
}

func TestAggregateSingleRecord(t *testing.T) {
	records := []domain.QueryRecord{{
		OrganizationID:   "1",
		OrganizationName: "Acme",
		QueryVIN:         "VIN1",
		TimeStamp:        "2025-11-01T07:31:56+0000",
	}}

	res := Aggregate(records, "", day(2025, 11, 1), day(2025, 11, 30))

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "VIN1", res.Rows[0].QueryVIN)
	assert.Equal(t, "2025-11-01T07:31:56+0000", res.Rows[0].TimeStamp)
	assert.Equal(t, 1, res.PerDay[day(2025, 11, 1)])
}

func TestAggregateDeduplicates(t *testing.T) {
	records := []domain.QueryRecord{
		rec("Acme", "V1", "2024-03-05T10:00:00"),
		rec("Acme", "V1", "2024-03-05T10:00:00"), // exact duplicate
		rec("Acme", "V1", "2024-03-05T11:00:00"), // same VIN, new timestamp
	}

	res := Aggregate(records, "", day(2024, 3, 1), day(2024, 3, 31))

	require.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.PerDay[day(2024, 3, 5)])
	require.Len(t, res.TopVINs, 1)
	assert.Equal(t, domain.VINCount{VIN: "V1", Count: 2}, res.TopVINs[0])
}

func TestAggregateOrganizationFilter(t *testing.T) {
	records := []domain.QueryRecord{
		rec("Acme", "V1", "2024-03-05T10:00:00"),
		rec("Other", "V2", "2024-03-05T10:00:00"),
		rec("", "V3", "2024-03-05T10:00:00"),
	}

	t.Run("exact match", func(t *testing.T) {
		res := Aggregate(records, "Acme", day(2024, 3, 1), day(2024, 3, 31))
		require.Len(t, res.Rows, 1)
		assert.Equal(t, "V1", res.Rows[0].QueryVIN)
	})

	t.Run("empty filter keeps everything", func(t *testing.T) {
		res := Aggregate(records, "", day(2024, 3, 1), day(2024, 3, 31))
		assert.Len(t, res.Rows, 3)
	})

	t.Run("no match", func(t *testing.T) {
		res := Aggregate(records, "acme", day(2024, 3, 1), day(2024, 3, 31))
		assert.Empty(t, res.Rows, "matching is case sensitive")
	})
}

func TestAggregateDateRangeInclusive(t *testing.T) {
	records := []domain.QueryRecord{
		rec("Acme", "V1", "2024-03-01T00:00:00"),
		rec("Acme", "V2", "2024-03-15T12:00:00"),
		rec("Acme", "V3", "2024-03-31T23:59:59"),
		rec("Acme", "V4", "2024-04-01T00:00:00"),
	}

	res := Aggregate(records, "", day(2024, 3, 1), day(2024, 3, 31))

	require.Len(t, res.Rows, 3)
	vins := []string{res.Rows[0].QueryVIN, res.Rows[1].QueryVIN, res.Rows[2].QueryVIN}
	assert.Equal(t, []string{"V1", "V2", "V3"}, vins, "boundary days are included")
}

func TestAggregateSkipsUnparseable(t *testing.T) {
	records := []domain.QueryRecord{
		rec("Acme", "V1", "2024-03-05T10:00:00"),
		rec("Acme", "V2", ""),
		rec("Acme", "V3", "broken"),
	}

	res := Aggregate(records, "", day(2024, 3, 1), day(2024, 3, 31))
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "V1", res.Rows[0].QueryVIN)
}

func TestAggregateTopVINs(t *testing.T) {
	var records []domain.QueryRecord
	// Seven distinct VINs; V1 queried most often, then V2, and so on. Each
	// event gets a unique timestamp so nothing deduplicates away.
	base := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		vin := string(rune('A' + i))
		for j := 0; j <= 7-i; j++ {
			ts := base.Add(time.Duration(i*100+j) * time.Minute)
			records = append(records, rec("Acme", "V"+vin, ts.Format("2006-01-02T15:04:05")))
		}
	}
	// Empty VINs count as rows but never rank.
	records = append(records,
		rec("Acme", "", "2024-03-05T22:00:00"),
		rec("Acme", "", "2024-03-05T22:01:00"))

	res := Aggregate(records, "", day(2024, 3, 1), day(2024, 3, 31))

	require.Len(t, res.TopVINs, TopVINLimit)
	assert.Equal(t, "VA", res.TopVINs[0].VIN)
	assert.Equal(t, 8, res.TopVINs[0].Count)
	for i := 1; i < len(res.TopVINs); i++ {
		assert.GreaterOrEqual(t, res.TopVINs[i-1].Count, res.TopVINs[i].Count)
		assert.NotEmpty(t, res.TopVINs[i].VIN)
	}

	// The empty-VIN rows still count toward the totals.
	total := 0
	for _, n := range res.PerDay {
		total += n
	}
	assert.Equal(t, len(res.Rows), total)
}

func TestAggregateIdempotent(t *testing.T) {
	records := []domain.QueryRecord{
		rec("Acme", "V1", "2024-03-05T10:00:00"),
		rec("Acme", "V2", "2024-03-06T10:00:00"),
		rec("Acme", "V1", "2024-03-05T10:00:00"),
	}

	first := Aggregate(records, "", day(2024, 3, 1), day(2024, 3, 31))
	second := Aggregate(records, "", day(2024, 3, 1), day(2024, 3, 31))
	assert.Equal(t, first, second)
}
