package usecase

import (
	"context"
	"time"

	"EconDash/internal/domain/models"
	"EconDash/internal/domain/repository"
	applogger "EconDash/pkg/logger"
)

// SettlementAuditor publishes an event for every settled transition.
type SettlementAuditor struct {
	pub     repository.SettlementPublisher
	metrics repository.Metrics
	log     *applogger.Logger
	timeout time.Duration
}

func NewSettlementAuditor(pub repository.SettlementPublisher, metrics repository.Metrics, log *applogger.Logger) *SettlementAuditor {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &SettlementAuditor{pub: pub, metrics: metrics, log: log, timeout: 5 * time.Second}
}

// Listen is a Listener; subscribe it to each controller.
func (a *SettlementAuditor) Listen(tr Transition) {
	if !tr.Settled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	ev := SettlementEventOf(tr)
	if err := a.pub.Publish(ctx, ev); err != nil {
		a.metrics.RecordError("publish")
		a.log.Warn("settlement publish failed",
			applogger.String("session", tr.SessionID),
			applogger.Uint64("seq", tr.Next.Seq),
			applogger.Any("event", ev),
			applogger.Error(err),
		)
	}
}

// SettlementEventOf builds the audit record of a settled transition.
func SettlementEventOf(tr Transition) *models.SettlementEvent {
	ev := &models.SettlementEvent{
		SessionID:     tr.SessionID,
		Seq:           tr.Next.Seq,
		Phase:         tr.Next.Phase,
		Country:       tr.Request.Country,
		HorizonMonths: tr.Request.HorizonMonths,
		DurationMs:    tr.Duration.Milliseconds(),
		At:            tr.Next.EnteredAt,
	}
	switch {
	case tr.Next.IsSuccess():
		ev.Points = len(tr.Next.Predictions)
		if tr.Next.Analysis != nil {
			ev.Status = tr.Next.Analysis.Status
		}
	case tr.Next.IsFailure():
		ev.Error = tr.Next.Message
	}
	return ev
}
