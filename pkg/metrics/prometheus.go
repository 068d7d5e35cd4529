package metrics

import (
	"time"

	"EconDash/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	submits          *prometheus.CounterVec
	settlements      *prometheus.HistogramVec
	staleSettlements prometheus.Counter
	activeSessions   prometheus.Gauge
	errorsTotal      *prometheus.CounterVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		submits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "econdash_forecast_submits_total",
				Help: "Forecast submits by outcome (accepted, rejected, rate_limited)",
			},
			[]string{"outcome"},
		),
		settlements: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "econdash_forecast_settlement_seconds",
				Help:    "Time from submit to settlement of forecast calls",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"phase"},
		),
		staleSettlements: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "econdash_stale_settlements_total",
				Help: "Settlements discarded because a newer submit superseded them",
			},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "econdash_active_sessions",
				Help: "Dashboard sessions currently held in memory",
			},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "econdash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
	if reg != nil {
		reg.MustRegister(r.submits, r.settlements, r.staleSettlements, r.activeSessions, r.errorsTotal)
	}
	return r
}

// RecordSubmit counts a submit by outcome.
func (r *Recorder) RecordSubmit(outcome string) {
	r.submits.WithLabelValues(outcome).Inc()
}

// RecordSettlement observes how long a call took to settle into phase.
func (r *Recorder) RecordSettlement(phase models.Phase, d time.Duration) {
	r.settlements.WithLabelValues(string(phase)).Observe(d.Seconds())
}

// RecordStaleSettlement counts a discarded out-of-order settlement.
func (r *Recorder) RecordStaleSettlement() {
	r.staleSettlements.Inc()
}

// RecordActiveSessions sets the current number of sessions.
func (r *Recorder) RecordActiveSessions(n int) {
	r.activeSessions.Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
