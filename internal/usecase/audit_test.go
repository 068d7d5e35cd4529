package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"EconDash/internal/domain/models"
	"EconDash/internal/services/forecast"
	applogger "EconDash/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.SettlementEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e *models.SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) Events() []*models.SettlementEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*models.SettlementEvent(nil), p.events...)
}

func TestAuditorPublishesSettlements(t *testing.T) {
	pub := &fakePublisher{}
	auditor := NewSettlementAuditor(pub, nil, nil)

	ok := NewController("s1", NewInputValidator(tenCountries, 0), &fakeClient{fetch: returning(models.Prediction{
		Points:   points("France", 3),
		Analysis: &models.AnalysisResult{Status: "Stable"},
	}, nil)})
	ok.Subscribe(auditor.Listen)
	wait(t, ok.Submit(context.Background(), "France", "3"))
	wait(t, ok.Submit(context.Background(), "", "3"))

	failing := NewController("s2", NewInputValidator(tenCountries, 0), &fakeClient{fetch: returning(models.Prediction{}, &forecast.ServiceError{Status: 429, Message: "rate limited"})})
	failing.Subscribe(auditor.Listen)
	wait(t, failing.Submit(context.Background(), "UK", "2"))

	events := pub.Events()
	require.Len(t, events, 3)

	assert.Equal(t, "s1", events[0].SessionID)
	assert.Equal(t, models.PhaseSuccess, events[0].Phase)
	assert.Equal(t, "France", events[0].Country)
	assert.Equal(t, 3, events[0].HorizonMonths)
	assert.Equal(t, 3, events[0].Points)
	assert.Equal(t, "Stable", events[0].Status)

	assert.Equal(t, models.PhaseFailure, events[1].Phase)
	assert.Equal(t, InvalidInputMessage, events[1].Error)
	assert.Equal(t, uint64(2), events[1].Seq)

	assert.Equal(t, "s2", events[2].SessionID)
	assert.Equal(t, "rate limited", events[2].Error)
}

func TestAuditorCountsPublishErrors(t *testing.T) {
	m := newFakeMetrics()
	var buf bytes.Buffer
	auditor := NewSettlementAuditor(&fakePublisher{err: errors.New("broker down")}, m, applogger.NewWithWriter(&buf, zerolog.DebugLevel))

	auditor.Listen(Transition{SessionID: "s1", Next: models.FailureState(1, "x")})
	auditor.Listen(Transition{SessionID: "s1", Next: models.LoadingState(2)})

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, 1, m.errors["publish"])

	out := buf.String()
	assert.Contains(t, out, `"message":"settlement publish failed"`)
	assert.Contains(t, out, `"event":{"session_id":"s1","seq":1,"phase":"failure"`)
	assert.Contains(t, out, `"error":"broker down"`)
}
