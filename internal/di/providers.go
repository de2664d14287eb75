package di

import (
	"context"
	"fmt"
	"time"

	"MarketBoard/internal/domain/repository"
	"MarketBoard/internal/handler/api"
	"MarketBoard/internal/handler/ws"
	internalrepo "MarketBoard/internal/repository"
	"MarketBoard/internal/scheduler"
	"MarketBoard/internal/service/ratelimit"
	"MarketBoard/internal/service/report"
	"MarketBoard/internal/service/yahoo"
	"MarketBoard/internal/services/analytics"
	"MarketBoard/internal/usecase"
	"MarketBoard/pkg/cache"
	pkgch "MarketBoard/pkg/clickhouse"
	"MarketBoard/pkg/config"
	xhttp "MarketBoard/pkg/http"
	pkgkafka "MarketBoard/pkg/kafka"
	applogger "MarketBoard/pkg/logger"
	"MarketBoard/pkg/metrics"
	"MarketBoard/pkg/server"
)

// ProvideLogger creates the application logger with a bounded error
// buffer feeding the health endpoint.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.WithCollector(applogger.NewErrorCollector(50)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the batch cache: in-process memory by default,
// layered over Redis when configured so replicas share one fetch cycle.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideMarketData creates the Yahoo Finance source.
func ProvideMarketData(cfg *config.Config, m repository.Metrics, l *applogger.Logger) repository.MarketData {
	return yahoo.NewClient(
		yahoo.Config{
			BaseURL:    cfg.MarketData.BaseURL,
			Range:      cfg.MarketData.Range,
			Interval:   cfg.MarketData.Interval,
			MaxRetries: cfg.MarketData.MaxRetries,
			RatePerSec: cfg.MarketData.RatePerSec,
			RateBurst:  cfg.MarketData.RateBurst,
		},
		xhttp.NewClient(xhttp.WithTimeout(cfg.MarketData.Timeout)),
		ratelimit.New(),
		m, l,
	)
}

// ProvideIndicatorEngine creates the indicator engine from config.
func ProvideIndicatorEngine(cfg *config.Config) *analytics.Engine {
	return analytics.NewEngine(analytics.IndicatorConfig{
		Window:    cfg.Analytics.SMAWindow,
		RSIPeriod: cfg.Analytics.RSIPeriod,
		Sigmas:    cfg.Analytics.BandSigmas,
	})
}

// ProvideSimulator creates the Monte Carlo simulator.
func ProvideSimulator() *analytics.Simulator {
	return analytics.NewSimulator()
}

// ProvideDashboardUseCase assembles the core use case.
func ProvideDashboardUseCase(
	cfg *config.Config,
	source repository.MarketData,
	c cache.Service,
	engine *analytics.Engine,
	sim *analytics.Simulator,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(cfg, source, c, engine, sim, m, l)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// archive backend is disabled.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(l,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithDialTimeout(cfg.ClickHouse.DialTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideArchive creates the quote archive repository.
func ProvideArchive(cfg *config.Config, client *pkgch.Client, l *applogger.Logger) (repository.Archive, error) {
	if client == nil {
		return internalrepo.NopArchive{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return internalrepo.NewClickHouseArchive(ctx, client, cfg.ClickHouse.Table, l)
}

// ProvidePublisher creates the quote publisher repository.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic, l), nil
}

// ProvideHub creates the websocket push hub.
func ProvideHub(m repository.Metrics, l *applogger.Logger) *ws.Hub {
	return ws.NewHub(m, l)
}

// ProvideScheduler creates the refresh scheduler.
func ProvideScheduler(
	cfg *config.Config,
	board *usecase.DashboardUseCase,
	hub *ws.Hub,
	pub repository.Publisher,
	arch repository.Archive,
	l *applogger.Logger,
) *scheduler.Scheduler {
	return scheduler.New(board, hub, pub, arch, l, cfg.Refresh.Interval, cfg.Refresh.OnStart)
}

// ProvideHTTPServer creates the Echo server with all handlers mounted.
func ProvideHTTPServer(
	cfg *config.Config,
	board *usecase.DashboardUseCase,
	hub *ws.Hub,
	l *applogger.Logger,
) *xhttp.Server {
	handlers := []xhttp.Handler{
		api.NewDashboardHandler(l, board, report.NewExporter()),
		hub,
	}
	return xhttp.NewServer(handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	sched *scheduler.Scheduler,
	hub *ws.Hub,
	c cache.Service,
	chClient *pkgch.Client,
	pub repository.Publisher,
) *server.App {
	app := server.New(cfg, l, httpServer, sched, hub, c, chClient)
	app.AddCloser(pub.Close)
	return app
}
