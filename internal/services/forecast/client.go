package forecast

import (
	"context"
	"errors"
	"net/http"
	"time"

	"EconDash/internal/domain/models"
	domsvc "EconDash/internal/domain/service"
	xhttp "EconDash/pkg/http"

	"github.com/goccy/go-json"
)

const predictPath = "/predict"

// HTTPPredictionClient calls POST /predict on the forecasting service.
type HTTPPredictionClient struct{ base *HTTPServiceBase }

func NewHTTPPredictionClient(baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *HTTPPredictionClient {
	return &HTTPPredictionClient{base: NewHTTPServiceBase(baseURL, timeout, opts...)}
}

type predictReq struct {
	Country          string `json:"country"`
	PredictionMonths int    `json:"prediction_months"`
}

type predictResp struct {
	Predictions models.PredictionResponse `json:"predictions"`
	Analysis    *models.AnalysisResult    `json:"analysis"`
	Error       string                    `json:"error"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Fetch issues exactly one call. A body carrying "error" is a ServiceError
// even on HTTP 200, which is how the service reports unknown countries.
func (c *HTTPPredictionClient) Fetch(ctx context.Context, req models.ForecastRequest) (models.Prediction, error) {
	var pr predictResp
	err := c.base.PostJSON(ctx, predictPath, predictReq{
		Country:          req.Country,
		PredictionMonths: req.HorizonMonths,
	}, &pr)
	if err != nil {
		return models.Prediction{}, classify(ctx, err)
	}
	if pr.Error != "" {
		return models.Prediction{}, &ServiceError{Status: http.StatusOK, Message: pr.Error}
	}
	if pr.Predictions == nil {
		pr.Predictions = models.PredictionResponse{}
	}
	return models.Prediction{Points: pr.Predictions, Analysis: pr.Analysis}, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		var body errorBody
		// An undecodable error body still counts as a service error, just
		// without a message.
		_ = json.Unmarshal(se.Body, &body)
		return &ServiceError{Status: se.StatusCode, Message: body.Error}
	}

	return &NetworkError{Err: err}
}

var _ domsvc.PredictionClient = (*HTTPPredictionClient)(nil)
var _ domsvc.UserFacingError = (*ServiceError)(nil)
