package usecase

import (
	"context"
	"sync"
	"time"

	"EconDash/internal/domain/repository"
	applogger "EconDash/pkg/logger"
)

// ControllerFactory builds the controller for a new session.
type ControllerFactory func(sessionID string) *Controller

type sessionEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// SessionRegistry holds one controller per dashboard session and evicts
// sessions that have not been used for longer than the TTL.
type SessionRegistry struct {
	factory ControllerFactory
	ttl     time.Duration
	metrics repository.Metrics
	log     *applogger.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewSessionRegistry(factory ControllerFactory, ttl time.Duration, metrics repository.Metrics, log *applogger.Logger) *SessionRegistry {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &SessionRegistry{
		factory:  factory,
		ttl:      ttl,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Get returns the session's controller, creating it on first use.
func (r *SessionRegistry) Get(id string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
		return e.ctrl
	}

	c := r.factory(id)
	r.sessions[id] = &sessionEntry{ctrl: c, lastSeen: r.now()}
	r.metrics.RecordActiveSessions(len(r.sessions))
	r.log.Debug("session created", applogger.String("session", id))
	return c
}

// Lookup returns an existing controller without creating or touching it.
func (r *SessionRegistry) Lookup(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.ctrl, true
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts expired sessions, cancelling their in-flight calls, and
// returns how many were removed.
func (r *SessionRegistry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	var expired []*Controller
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.ctrl)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	if len(expired) > 0 {
		r.metrics.RecordActiveSessions(n)
		r.log.Info("sessions evicted", applogger.Int("evicted", len(expired)), applogger.Int("active", n))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close cancels the calls of every session and empties the registry.
func (r *SessionRegistry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*sessionEntry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.ctrl.Close()
	}
	r.metrics.RecordActiveSessions(0)
}
