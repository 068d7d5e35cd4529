//go:build wireinject
// +build wireinject

package di

import (
	"EconDash/pkg/config"
	"EconDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvidePredictionClient,
		ProvideSettlementPublisher,
		ProvideSubmitLimiter,

		// Use cases
		ProvideInputValidator,
		ProvideSettlementAuditor,
		ProvideSessionRegistry,

		// Transport
		ProvideStateHub,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil, nil
}
