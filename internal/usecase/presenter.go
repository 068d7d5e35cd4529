package usecase

import (
	"strings"

	"EconDash/internal/domain/models"
)

// Present maps an analysis to its panel. The category is the lower-cased
// status and selects the panel style; unknown statuses get an unstyled panel.
// A nil analysis has no panel.
func Present(a *models.AnalysisResult) (models.AnalysisPanel, bool) {
	if a == nil {
		return models.AnalysisPanel{}, false
	}
	recs := a.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return models.AnalysisPanel{
		Status:          a.Status,
		Category:        strings.ToLower(a.Status),
		Recommendations: recs,
	}, true
}
