package usecase

import (
	"context"
	"sync"

	"EconDash/internal/domain/models"
)

// Task is the handle of one submit. A rejected submit yields a Task that is
// already settled.
type Task struct {
	seq    uint64
	req    models.ForecastRequest
	cancel context.CancelFunc
	done   chan struct{}
	// rejected is set when validation failed and no call was made.
	rejected bool

	mu      sync.Mutex
	outcome models.RequestState
	applied bool
}

func newTask(seq uint64, req models.ForecastRequest, cancel context.CancelFunc) *Task {
	if cancel == nil {
		cancel = func() {}
	}
	return &Task{seq: seq, req: req, cancel: cancel, done: make(chan struct{})}
}

func (t *Task) Seq() uint64 { return t.seq }

// Request returns the validated request, zero for rejected submits.
func (t *Task) Request() models.ForecastRequest { return t.req }

// Rejected reports whether the submit failed validation.
func (t *Task) Rejected() bool { return t.rejected }

// Done is closed once the task has settled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel aborts the call. Settlement still happens, with context.Canceled.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the task settles or ctx is done and returns the state the
// call settled into. That state may not have been applied; see Applied.
func (t *Task) Wait(ctx context.Context) (models.RequestState, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.outcome, nil
	case <-ctx.Done():
		return models.RequestState{}, ctx.Err()
	}
}

// Applied reports whether the settlement replaced the controller state.
// Only meaningful after Done is closed.
func (t *Task) Applied() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.applied
}

func (t *Task) finish(outcome models.RequestState, applied bool) {
	t.mu.Lock()
	t.outcome = outcome
	t.applied = applied
	t.mu.Unlock()
	t.cancel()
	close(t.done)
}
