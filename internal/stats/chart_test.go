package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinstats/pkg/contracts/domain"
)

func TestHistogramSeriesDaily(t *testing.T) {
	perDay := map[time.Time]int{
		day(2024, 3, 7): 2,
		day(2024, 3, 5): 4,
		day(2024, 4, 1): 1,
	}

	series := HistogramSeries(perDay)

	require.Len(t, series.Points, 3)
	assert.Equal(t, []domain.ChartPoint{
		{Label: "05.03.", Value: 4},
		{Label: "07.03.", Value: 2},
		{Label: "01.04.", Value: 1},
	}, series.Points)
}

func TestHistogramSeriesDailyAtLimit(t *testing.T) {
	perDay := make(map[time.Time]int)
	start := day(2024, 3, 1)
	for i := 0; i < DailyBucketLimit; i++ {
		perDay[start.AddDate(0, 0, i)] = 1
	}

	series := HistogramSeries(perDay)

	// Exactly 31 distinct days still renders per day.
	require.Len(t, series.Points, DailyBucketLimit)
	assert.Equal(t, "01.03.", series.Points[0].Label)
	assert.Equal(t, "31.03.", series.Points[DailyBucketLimit-1].Label)
}

func TestHistogramSeriesMonthlyRebucket(t *testing.T) {
	perDay := make(map[time.Time]int)
	start := day(2024, 3, 1)
	for i := 0; i < 40; i++ {
		perDay[start.AddDate(0, 0, i)] = 2
	}

	series := HistogramSeries(perDay)

	// 40 distinct days collapse into March and April buckets with summed
	// counts: 31 days in March, 9 in April.
	require.Len(t, series.Points, 2)
	assert.Equal(t, domain.ChartPoint{Label: "03.2024", Value: 62}, series.Points[0])
	assert.Equal(t, domain.ChartPoint{Label: "04.2024", Value: 18}, series.Points[1])
}

func TestHistogramSeriesMonthlyOrderAcrossYears(t *testing.T) {
	perDay := make(map[time.Time]int)
	start := day(2023, 12, 1)
	for i := 0; i < 62; i++ {
		perDay[start.AddDate(0, 0, i)] = 1
	}

	series := HistogramSeries(perDay)

	require.Len(t, series.Points, 3)
	assert.Equal(t, "12.2023", series.Points[0].Label)
	assert.Equal(t, "01.2024", series.Points[1].Label)
	assert.Equal(t, "02.2024", series.Points[2].Label)
}

func TestHistogramSeriesEmpty(t *testing.T) {
	series := HistogramSeries(nil)
	assert.True(t, series.Empty())
}

func TestTopVINSeries(t *testing.T) {
	series := TopVINSeries([]domain.VINCount{
		{VIN: "V1", Count: 9},
		{VIN: "V2", Count: 3},
	})

	assert.Equal(t, []domain.ChartPoint{
		{Label: "V1", Value: 9},
		{Label: "V2", Value: 3},
	}, series.Points)

	assert.True(t, TopVINSeries(nil).Empty())
}
