//go:build wireinject
// +build wireinject

package di

import (
	"MarketBoard/pkg/config"
	"MarketBoard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideClickHouseClient,

		// Data source and analytics
		ProvideMarketData,
		ProvideIndicatorEngine,
		ProvideSimulator,

		// Repositories
		ProvideArchive,
		ProvidePublisher,

		// Use case, transport, refresh loop
		ProvideDashboardUseCase,
		ProvideHub,
		ProvideScheduler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
