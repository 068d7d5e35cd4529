package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EconDash/internal/domain/repository"
	"EconDash/internal/handler/web"
	"EconDash/internal/usecase"
	"EconDash/pkg/config"
	xhttp "EconDash/pkg/http"
	applogger "EconDash/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	sessions   *usecase.SessionRegistry
	hub        *web.StateHub
	publisher  repository.SettlementPublisher
	limiter    repository.SubmitLimiter
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	sessions *usecase.SessionRegistry,
	hub *web.StateHub,
	publisher repository.SettlementPublisher,
	limiter repository.SubmitLimiter,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		sessions:   sessions,
		hub:        hub,
		publisher:  publisher,
		limiter:    limiter,
	}
}

// pruner is implemented by in-memory limiters that keep per-key state.
type pruner interface {
	Prune() int
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	bg, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.sessions.Run(bg, a.cfg.Dashboard.SweepInterval)
	a.log.Info("session sweeper started",
		applogger.Duration("ttl_ms", a.cfg.Dashboard.SessionTTL),
		applogger.Duration("interval_ms", a.cfg.Dashboard.SweepInterval),
	)

	if p, ok := a.limiter.(pruner); ok {
		go a.pruneLoop(bg, p, a.cfg.Dashboard.SweepInterval)
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("dashboard ready",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("forecast_url", a.cfg.Forecast.BaseURL),
		applogger.String("supersede_policy", a.cfg.Dashboard.SupersedePolicy),
		applogger.Bool("events", a.cfg.Events.Enabled),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) pruneLoop(ctx context.Context, p pruner, interval time.Duration) {
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
			if n := p.Prune(); n > 0 {
				a.log.Debug("rate limit buckets pruned", applogger.Int("pruned", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	// Websockets are hijacked connections; echo's Shutdown does not wait for them.
	a.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	// Cancel in-flight forecast calls; their settlements still reach the publisher.
	a.sessions.Close()

	if err := a.publisher.Close(); err != nil {
		a.log.Warn("settlement publisher close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
