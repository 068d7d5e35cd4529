package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"EconDash/internal/domain/models"
	"EconDash/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

const (
	labelIdle    = "Get Forecast"
	labelLoading = "Predicting..."
)

// dashboardView is everything the page template needs.
type dashboardView struct {
	Countries   []string
	FreeText    bool
	MaxHorizon  int
	Country     string
	Months      string
	Phase       models.Phase
	Seq         uint64
	Loading     bool
	ButtonLabel string
	Error       string
	HasCharts   bool
	Analysis    *models.AnalysisPanel
}

func newDashboardView(v *usecase.InputValidator, s models.RequestState, form models.SubmitForm) dashboardView {
	view := dashboardView{
		Countries:   v.Countries(),
		FreeText:    v.FreeText(),
		MaxHorizon:  v.MaxHorizon(),
		Country:     form.Country,
		Months:      string(form.Months),
		Phase:       s.Phase,
		Seq:         s.Seq,
		Loading:     s.IsLoading(),
		ButtonLabel: labelIdle,
	}
	if view.Loading {
		view.ButtonLabel = labelLoading
	}
	switch {
	case s.IsFailure():
		view.Error = s.Message
	case s.IsSuccess():
		view.HasCharts = true
		if panel, ok := usecase.Present(s.Analysis); ok {
			view.Analysis = &panel
		}
	}
	return view
}

func renderDashboard(view dashboardView) ([]byte, error) {
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

// stateView is the JSON shape of a session's state.
type stateView struct {
	Phase    models.Phase          `json:"phase"`
	Seq      uint64                `json:"seq"`
	Error    string                `json:"error,omitempty"`
	Series   []models.ChartSeries  `json:"series,omitempty"`
	Analysis *models.AnalysisPanel `json:"analysis,omitempty"`
}

func newStateView(s models.RequestState) stateView {
	out := stateView{Phase: s.Phase, Seq: s.Seq}
	switch {
	case s.IsFailure():
		out.Error = s.Message
	case s.IsSuccess():
		out.Series = usecase.Project(s.Predictions)
		if panel, ok := usecase.Present(s.Analysis); ok {
			out.Analysis = &panel
		}
	}
	return out
}
