package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"EconDash/internal/domain/models"
)

type fetchFunc func(ctx context.Context, req models.ForecastRequest) (models.Prediction, error)

type fakeClient struct {
	mu    sync.Mutex
	calls []models.ForecastRequest
	fetch fetchFunc
}

func (f *fakeClient) Fetch(ctx context.Context, req models.ForecastRequest) (models.Prediction, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	fn := f.fetch
	f.mu.Unlock()
	return fn(ctx, req)
}

func (f *fakeClient) Calls() []models.ForecastRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ForecastRequest(nil), f.calls...)
}

func returning(p models.Prediction, err error) fetchFunc {
	return func(context.Context, models.ForecastRequest) (models.Prediction, error) { return p, err }
}

type fakeMetrics struct {
	mu          sync.Mutex
	submits     map[string]int
	settlements map[models.Phase]int
	stale       int
	active      int
	errors      map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		submits:     map[string]int{},
		settlements: map[models.Phase]int{},
		errors:      map[string]int{},
	}
}

func (m *fakeMetrics) RecordSubmit(o string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submits[o]++
}

func (m *fakeMetrics) RecordSettlement(p models.Phase, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settlements[p]++
}

func (m *fakeMetrics) RecordStaleSettlement() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale++
}

func (m *fakeMetrics) RecordActiveSessions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = n
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) snapshot() (stale, active int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stale, m.active
}

// points builds n monthly points with increasing values.
func points(country string, n int) models.PredictionResponse {
	out := make(models.PredictionResponse, 0, n)
	for i := 0; i < n; i++ {
		v := float64(i + 1)
		out = append(out, models.PredictionPoint{
			Date:             fmt.Sprintf("2024-%02d-28", i+1),
			Country:          country,
			InflationRate:    2 + v/10,
			GDPGrowthRate:    1 + v/10,
			UnemploymentRate: 7 + v/10,
			InterestRate:     4 + v/10,
			StockIndexValue:  7000 + v*100,
		})
	}
	return out
}

// phaseRecorder collects the phases a controller goes through.
type phaseRecorder struct {
	mu     sync.Mutex
	phases []models.Phase
	trs    []Transition
}

func (r *phaseRecorder) listen(tr Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, tr.Next.Phase)
	r.trs = append(r.trs, tr)
}

func (r *phaseRecorder) Phases() []models.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Phase(nil), r.phases...)
}

func (r *phaseRecorder) Transitions() []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Transition(nil), r.trs...)
}
