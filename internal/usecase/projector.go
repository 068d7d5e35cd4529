package usecase

import "EconDash/internal/domain/models"

// Indicator describes one chart: which value it plots and how it is labelled.
type Indicator struct {
	Key   string
	Title string
	Label string
	Color string
	Value func(models.PredictionPoint) float64
}

var indicators = []Indicator{
	{"inflation", "Inflation Rate", "Inflation (%)", "#FF6384", func(p models.PredictionPoint) float64 { return p.InflationRate }},
	{"gdp_growth", "GDP Growth Rate", "GDP Growth (%)", "#36A2EB", func(p models.PredictionPoint) float64 { return p.GDPGrowthRate }},
	{"unemployment", "Unemployment Rate", "Unemployment (%)", "#FFCE56", func(p models.PredictionPoint) float64 { return p.UnemploymentRate }},
	{"interest_rate", "Interest Rate", "Interest (%)", "#4BC0C0", func(p models.PredictionPoint) float64 { return p.InterestRate }},
	{"stock_index", "Stock Index Value", "Stock Index", "#9966FF", func(p models.PredictionPoint) float64 { return p.StockIndexValue }},
}

// Indicators returns the chart table in display order.
func Indicators() []Indicator {
	return append([]Indicator(nil), indicators...)
}

// Project splits a prediction response into one series per indicator,
// keeping the order of the response.
func Project(resp models.PredictionResponse) []models.ChartSeries {
	out := make([]models.ChartSeries, 0, len(indicators))
	for _, ind := range indicators {
		points := make([]models.SeriesPoint, 0, len(resp))
		for _, p := range resp {
			points = append(points, models.SeriesPoint{X: p.Date, Y: ind.Value(p)})
		}
		out = append(out, models.ChartSeries{
			Key:    ind.Key,
			Title:  ind.Title,
			Label:  ind.Label,
			Color:  ind.Color,
			Points: points,
		})
	}
	return out
}
