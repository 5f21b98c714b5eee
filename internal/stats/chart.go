package stats

import (
	"sort"
	"time"

	"vinstats/pkg/contracts/domain"
)

const (
	dayLabelLayout   = "02.01."
	monthLabelLayout = "01.2006"
)

// DailyBucketLimit is the largest number of distinct days rendered as one
// bucket per day; above it the histogram is re-bucketed by month.
const DailyBucketLimit = 31

// HistogramSeries shapes the per-day counts into a renderable series. Up to
// DailyBucketLimit distinct days produce one bucket per calendar day labeled
// DD.MM., sorted ascending; beyond that the counts are summed into monthly
// buckets labeled MM.YYYY, sorted ascending by (year, month).
func HistogramSeries(perDay map[time.Time]int) domain.ChartSeries {
	if len(perDay) == 0 {
		return domain.ChartSeries{}
	}

	days := make([]time.Time, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	if len(days) <= DailyBucketLimit {
		points := make([]domain.ChartPoint, 0, len(days))
		for _, d := range days {
			points = append(points, domain.ChartPoint{Label: d.Format(dayLabelLayout), Value: perDay[d]})
		}
		return domain.ChartSeries{Points: points}
	}

	monthly := make(map[time.Time]int)
	for _, d := range days {
		m := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		monthly[m] += perDay[d]
	}
	months := make([]time.Time, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	points := make([]domain.ChartPoint, 0, len(months))
	for _, m := range months {
		points = append(points, domain.ChartPoint{Label: m.Format(monthLabelLayout), Value: monthly[m]})
	}
	return domain.ChartSeries{Points: points}
}

// TopVINSeries turns the VIN ranking into a bar series, preserving the
// aggregator's order with the highest count first.
func TopVINSeries(top []domain.VINCount) domain.ChartSeries {
	if len(top) == 0 {
		return domain.ChartSeries{}
	}
	points := make([]domain.ChartPoint, 0, len(top))
	for _, vc := range top {
		points = append(points, domain.ChartPoint{Label: vc.VIN, Value: vc.Count})
	}
	return domain.ChartSeries{Points: points}
}
