package usecase

import (
	"context"
	"sync"
	"time"

	"EconDash/internal/domain/models"
	"EconDash/internal/domain/repository"
	domsvc "EconDash/internal/domain/service"
	applogger "EconDash/pkg/logger"
)

// Transition describes one applied state change.
type Transition struct {
	SessionID string
	Request   models.ForecastRequest
	Prev      models.RequestState
	Next      models.RequestState
	// Err and Duration are set for settlements only.
	Err      error
	Duration time.Duration
}

// Settled reports whether the transition ends a call or rejects a submit.
func (t Transition) Settled() bool {
	return t.Next.IsSuccess() || t.Next.IsFailure()
}

// Listener observes applied transitions in order. It runs without the state
// lock held, so it may read State, but it must not call Submit or Subscribe
// synchronously.
type Listener func(Transition)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

func WithPolicy(p SupersedePolicy) ControllerOption {
	return func(c *Controller) { c.policy = p }
}

func WithMetrics(m repository.Metrics) ControllerOption {
	return func(c *Controller) {
		if m != nil {
			c.metrics = m
		}
	}
}

func WithLogger(l *applogger.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller owns the request lifecycle of one dashboard session.
type Controller struct {
	id        string
	validator *InputValidator
	client    domsvc.PredictionClient
	policy    SupersedePolicy
	metrics   repository.Metrics
	log       *applogger.Logger

	mu       sync.Mutex
	state    models.RequestState
	seq      uint64
	inflight map[uint64]*Task
	closed   bool
	pending  []Transition

	// notifyMu serializes delivery of pending; it is never acquired while
	// mu is held.
	notifyMu  sync.Mutex
	listeners map[uint64]Listener
	nextLID   uint64
}

func NewController(sessionID string, validator *InputValidator, client domsvc.PredictionClient, opts ...ControllerOption) *Controller {
	c := &Controller{
		id:        sessionID,
		validator: validator,
		client:    client,
		policy:    LatestSubmit,
		metrics:   nopMetrics{},
		log:       applogger.Nop(),
		state:     models.IdleState(),
		inflight:  make(map[uint64]*Task),
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(applogger.String("session", sessionID))
	return c
}

func (c *Controller) SessionID() string { return c.id }

// Validator exposes the validator so views can render the allowed inputs.
func (c *Controller) Validator() *InputValidator { return c.validator }

// State returns the current state value.
func (c *Controller) State() models.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers l for every later transition.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) {
	c.notifyMu.Lock()
	id := c.nextLID
	c.nextLID++
	c.listeners[id] = l
	c.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.notifyMu.Lock()
			delete(c.listeners, id)
			c.notifyMu.Unlock()
		})
	}
}

// Submit validates the input and, when valid, starts the forecast call.
// The state is Loading (or Failure for invalid input) when Submit returns.
// The call is detached from ctx cancellation so that it outlives the HTTP
// request that triggered it; use Task.Cancel to abort it.
func (c *Controller) Submit(ctx context.Context, country, horizonMonths string) *Task {
	req, verr := c.validator.Validate(country, horizonMonths)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	prev := c.state
	if c.policy == LatestSubmit {
		for _, older := range c.inflight {
			older.Cancel()
		}
	}

	if verr != nil {
		next := OnSubmitRejected(prev, seq, verr)
		c.state = next
		t := newTask(seq, req, nil)
		t.rejected = true
		c.metrics.RecordSubmit("rejected")
		c.log.Debug("submit rejected", applogger.Uint64("seq", seq), applogger.Error(verr))
		c.notify(Transition{SessionID: c.id, Prev: prev, Next: next, Err: verr})
		t.finish(next, true)
		return t
	}

	callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	t := newTask(seq, req, cancel)
	if c.closed {
		cancel()
	}
	c.inflight[seq] = t
	next := OnSubmitAccepted(prev, seq)
	c.state = next
	c.metrics.RecordSubmit("accepted")
	c.log.Info("forecast requested",
		applogger.Uint64("seq", seq),
		applogger.String("country", req.Country),
		applogger.Int("months", req.HorizonMonths),
	)

	go c.run(callCtx, t)

	c.notify(Transition{SessionID: c.id, Request: req, Prev: prev, Next: next})
	return t
}

func (c *Controller) run(ctx context.Context, t *Task) {
	start := time.Now()
	p, err := c.client.Fetch(ctx, t.req)
	c.settle(t, p, err, time.Since(start))
}

func (c *Controller) settle(t *Task, p models.Prediction, err error, d time.Duration) {
	c.mu.Lock()
	delete(c.inflight, t.seq)
	prev := c.state
	next, applied := OnSettled(prev, t.seq, p, err, c.policy)
	outcome := next
	if !applied {
		outcome = settledState(t.seq, p, err)
	}

	fields := []applogger.Field{
		applogger.Uint64("seq", t.seq),
		applogger.Duration("duration_ms", d),
		applogger.String("phase", string(outcome.Phase)),
	}
	if !applied {
		c.metrics.RecordStaleSettlement()
		c.log.Debug("stale settlement discarded", append(fields, applogger.Uint64("current_seq", prev.Seq))...)
		c.mu.Unlock()
		t.finish(outcome, false)
		return
	}

	c.state = next
	c.metrics.RecordSettlement(next.Phase, d)
	if err != nil {
		c.log.Warn("forecast failed", append(fields, applogger.Error(err))...)
	} else {
		c.log.Info("forecast settled", append(fields, applogger.Int("points", len(p.Points)))...)
	}
	c.notify(Transition{SessionID: c.id, Request: t.req, Prev: prev, Next: next, Err: err, Duration: d})
	t.finish(outcome, true)
}

// notify must be called with c.mu held. It queues tr in transition order,
// releases c.mu and then delivers everything queued so far.
func (c *Controller) notify(tr Transition) {
	c.pending = append(c.pending, tr)
	c.mu.Unlock()
	c.dispatch()
}

func (c *Controller) dispatch() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	for {
		c.mu.Lock()
		if len(c.pending) == 0 {
			c.mu.Unlock()
			return
		}
		tr := c.pending[0]
		c.pending[0] = Transition{}
		c.pending = c.pending[1:]
		c.mu.Unlock()

		for _, l := range c.listeners {
			l(tr)
		}
	}
}

// Close cancels every in-flight call. Later submits are cancelled at once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, t := range c.inflight {
		t.Cancel()
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordSubmit(string)                           {}
func (nopMetrics) RecordSettlement(models.Phase, time.Duration) {}
func (nopMetrics) RecordStaleSettlement()                        {}
func (nopMetrics) RecordActiveSessions(int)                      {}
func (nopMetrics) RecordError(string)                            {}
