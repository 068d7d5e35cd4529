package models

// SeriesPoint is one (period, value) pair of a chart series.
type SeriesPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// ChartSeries is the chart-ready view of a single indicator. Derived from a
// Success state on demand, never stored.
type ChartSeries struct {
	Key    string        `json:"key"`
	Title  string        `json:"title"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
	Points []SeriesPoint `json:"points"`
}

// AnalysisPanel is the presentation of an AnalysisResult.
type AnalysisPanel struct {
	Status          string   `json:"status"`
	Category        string   `json:"category"`
	Recommendations []string `json:"recommendations"`
}
