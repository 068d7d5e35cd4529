package service

import (
	"context"

	"EconDash/internal/domain/models"
)

// PredictionClient performs one forecast call against the forecasting service.
// Implementations must not retry or cache.
type PredictionClient interface {
	Fetch(ctx context.Context, req models.ForecastRequest) (models.Prediction, error)
}

// UserFacingError is implemented by errors whose message may be shown to the
// user as-is. An empty UserMessage means there is nothing worth showing.
type UserFacingError interface {
	error
	UserMessage() string
}
