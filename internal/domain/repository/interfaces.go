package repository

import (
	"context"
	"time"

	"EconDash/internal/domain/models"
)

// SettlementPublisher emits audit events for settled forecast calls.
type SettlementPublisher interface {
	Publish(ctx context.Context, e *models.SettlementEvent) error
	Close() error
}

// Metrics records forecast lifecycle measurements.
type Metrics interface {
	RecordSubmit(outcome string)
	RecordSettlement(phase models.Phase, d time.Duration)
	RecordStaleSettlement()
	RecordActiveSessions(n int)
	RecordError(kind string)
}

// SubmitLimiter decides whether a client may submit another forecast request.
type SubmitLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
