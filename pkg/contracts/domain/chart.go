package domain

// ChartPoint is a single labeled value in a renderable series.
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ChartSeries is an ordered, labeled numeric series handed to whatever
// renders the charts. An empty series is a valid "nothing to plot" state,
// not an error.
type ChartSeries struct {
	Points []ChartPoint `json:"points"`
}

// Empty reports whether the series has nothing to plot.
func (s ChartSeries) Empty() bool {
	return len(s.Points) == 0
}
