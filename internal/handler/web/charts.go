package web

import (
	"fmt"
	"io"

	"EconDash/internal/domain/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// lineChart draws one indicator series.
func lineChart(s models.ChartSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: s.Title,
			},
		),
	)

	xs := make([]string, 0, len(s.Points))
	data := make([]opts.LineData, 0, len(s.Points))
	for _, p := range s.Points {
		xs = append(xs, p.X)
		data = append(data, opts.LineData{Value: p.Y})
	}

	line.SetXAxis(xs).
		AddSeries(s.Label, data, charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}))
	return line
}

// renderCharts writes a standalone page with one chart per series.
func renderCharts(w io.Writer, series []models.ChartSeries) error {
	page := components.NewPage()
	page.PageTitle = "Forecast charts"
	for _, s := range series {
		page.AddCharts(lineChart(s))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}
