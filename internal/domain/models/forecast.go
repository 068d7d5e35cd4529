package models

// ForecastRequest is a validated submit: one country and a horizon in months.
type ForecastRequest struct {
	Country       string `json:"country" validate:"required"`
	HorizonMonths int    `json:"prediction_months" validate:"gte=1"`
}

// PredictionPoint is one forecast period as returned by the forecasting service.
type PredictionPoint struct {
	Date             string  `json:"Date"`
	Country          string  `json:"Country,omitempty"`
	InflationRate    float64 `json:"Inflation Rate (%)"`
	GDPGrowthRate    float64 `json:"GDP Growth Rate (%)"`
	UnemploymentRate float64 `json:"Unemployment Rate (%)"`
	InterestRate     float64 `json:"Interest Rate (%)"`
	StockIndexValue  float64 `json:"Stock Index Value"`
}

// PredictionResponse is ordered chronologically by position.
type PredictionResponse []PredictionPoint

// AnalysisResult is the optional qualitative assessment. The status set is
// defined by the service.
type AnalysisResult struct {
	Status          string   `json:"status"`
	Recommendations []string `json:"recommendations"`
}

// Prediction is a successful settlement of one forecast call.
type Prediction struct {
	Points   PredictionResponse `json:"predictions"`
	Analysis *AnalysisResult    `json:"analysis,omitempty"`
}
