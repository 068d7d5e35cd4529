package usecase

import (
	"context"
	"testing"
	"time"

	"EconDash/internal/domain/models"
	applogger "EconDash/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(ttl time.Duration, client *fakeClient, m *fakeMetrics) *SessionRegistry {
	v := NewInputValidator(tenCountries, 0)
	return NewSessionRegistry(func(id string) *Controller {
		return NewController(id, v, client)
	}, ttl, m, applogger.Nop())
}

func TestRegistryGetCreatesOnce(t *testing.T) {
	m := newFakeMetrics()
	r := newTestRegistry(time.Minute, &fakeClient{fetch: returning(models.Prediction{}, nil)}, m)

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.NotSame(t, a, r.Get("b"))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "a", a.SessionID())

	_, active := m.snapshot()
	assert.Equal(t, 2, active)

	got, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Same(t, a, got)
	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistrySweep(t *testing.T) {
	m := newFakeMetrics()
	client := &fakeClient{fetch: func(ctx context.Context, _ models.ForecastRequest) (models.Prediction, error) {
		<-ctx.Done()
		return models.Prediction{}, ctx.Err()
	}}
	r := newTestRegistry(time.Minute, client, m)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	old := r.Get("old")
	task := old.Submit(context.Background(), "France", "2")

	now = now.Add(45 * time.Second)
	r.Get("fresh")

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, ok := r.Lookup("old")
	assert.False(t, ok)
	wait(t, task)
	assert.True(t, old.State().IsIdle())

	_, active := m.snapshot()
	assert.Equal(t, 1, active)
}

func TestRegistryGetRefreshesLastSeen(t *testing.T) {
	r := newTestRegistry(time.Minute, &fakeClient{fetch: returning(models.Prediction{}, nil)}, newFakeMetrics())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Get("a")
	now = now.Add(50 * time.Second)
	r.Get("a")
	now = now.Add(50 * time.Second)

	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistryZeroTTLNeverEvicts(t *testing.T) {
	r := newTestRegistry(0, &fakeClient{fetch: returning(models.Prediction{}, nil)}, newFakeMetrics())
	r.Get("a")
	assert.Equal(t, 0, r.Sweep())
}

func TestRegistryClose(t *testing.T) {
	m := newFakeMetrics()
	r := newTestRegistry(time.Minute, &fakeClient{fetch: returning(models.Prediction{}, nil)}, m)
	r.Get("a")
	r.Get("b")
	r.Close()
	assert.Equal(t, 0, r.Len())
	_, active := m.snapshot()
	assert.Equal(t, 0, active)
}

func TestRegistryRunStopsWithContext(t *testing.T) {
	r := newTestRegistry(time.Minute, &fakeClient{fetch: returning(models.Prediction{}, nil)}, newFakeMetrics())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
