package di

import (
	"fmt"

	"EconDash/internal/domain/repository"
	domsvc "EconDash/internal/domain/service"
	"EconDash/internal/handler/web"
	internalrepo "EconDash/internal/repository"
	"EconDash/internal/service/ratelimit"
	"EconDash/internal/services/forecast"
	"EconDash/internal/usecase"
	"EconDash/pkg/config"
	xhttp "EconDash/pkg/http"
	pkgkafka "EconDash/pkg/kafka"
	applogger "EconDash/pkg/logger"
	"EconDash/pkg/metrics"
	"EconDash/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvidePredictionClient creates the forecasting service client.
func ProvidePredictionClient(cfg *config.Config) domsvc.PredictionClient {
	return forecast.NewHTTPPredictionClient(cfg.Forecast.BaseURL, cfg.Forecast.Timeout)
}

// ProvideInputValidator builds the validator from the configured country set.
func ProvideInputValidator(cfg *config.Config) *usecase.InputValidator {
	return usecase.NewInputValidator(cfg.Dashboard.Countries, cfg.Dashboard.MaxHorizonMonths)
}

// ProvideSettlementPublisher creates the Kafka publisher, or a no-op one when
// events are disabled.
func ProvideSettlementPublisher(cfg *config.Config) (repository.SettlementPublisher, error) {
	if !cfg.Events.Enabled {
		return internalrepo.NopSettlementPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithWriteTimeout(cfg.Events.WriteTimeout),
		pkgkafka.WithAsync(cfg.Events.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaSettlementPublisher(producer, cfg.Events.Topic), nil
}

// ProvideSettlementAuditor creates the listener that feeds the publisher.
func ProvideSettlementAuditor(pub repository.SettlementPublisher, m repository.Metrics, l *applogger.Logger) *usecase.SettlementAuditor {
	return usecase.NewSettlementAuditor(pub, m, l)
}

// ProvideSessionRegistry creates the per-session controller registry.
func ProvideSessionRegistry(
	cfg *config.Config,
	v *usecase.InputValidator,
	client domsvc.PredictionClient,
	auditor *usecase.SettlementAuditor,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SessionRegistry {
	policy := usecase.ParseSupersedePolicy(cfg.Dashboard.SupersedePolicy)
	events := cfg.Events.Enabled
	factory := func(id string) *usecase.Controller {
		c := usecase.NewController(id, v, client,
			usecase.WithPolicy(policy),
			usecase.WithMetrics(m),
			usecase.WithLogger(l),
		)
		if events {
			c.Subscribe(auditor.Listen)
		}
		return c
	}
	return usecase.NewSessionRegistry(factory, cfg.Dashboard.SessionTTL, m, l)
}

// ProvideSubmitLimiter creates the configured rate limiter. The cleanup
// closes the Redis client when one was opened.
func ProvideSubmitLimiter(cfg *config.Config, l *applogger.Logger) (repository.SubmitLimiter, func(), error) {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.Allowed{}, func() {}, nil
	}
	if rl.Backend != "redis" {
		return ratelimit.New(rl.Burst, rl.PerMinute), func() {}, nil
	}

	client, err := ratelimit.NewRedisClient(rl.Redis.Addr,
		ratelimit.WithPassword(rl.Redis.Password),
		ratelimit.WithDB(rl.Redis.DB),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("rate limit redis: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}
	return ratelimit.NewRedisLimiter(client, rl.Redis.Prefix, rl.PerMinute, rl.Window), cleanup, nil
}

// ProvideStateHub creates the websocket hub.
func ProvideStateHub(l *applogger.Logger) *web.StateHub {
	return web.NewStateHub(l)
}

// ProvideDashboardHandler creates the HTTP handler.
func ProvideDashboardHandler(
	l *applogger.Logger,
	reg *usecase.SessionRegistry,
	limiter repository.SubmitLimiter,
	hub *web.StateHub,
	m repository.Metrics,
) xhttp.Handler {
	return web.NewDashboardHandler(l, reg, limiter, hub, m)
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, cfg.Metrics.SlowThreshold))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	reg *usecase.SessionRegistry,
	hub *web.StateHub,
	pub repository.SettlementPublisher,
	limiter repository.SubmitLimiter,
) *server.App {
	return server.New(cfg, l, srv, reg, hub, pub, limiter)
}

