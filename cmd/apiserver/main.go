// API server entry point.  Wires the catalog backend (PostgreSQL mirror or
// Snowflake warehouse), the optional Redis metadata cache and Kafka audit
// producer, and serves the lookup API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m0th3rfkr/ejecucion-publica/internal/application/lookup"
	"github.com/m0th3rfkr/ejecucion-publica/internal/config"
	"github.com/m0th3rfkr/ejecucion-publica/internal/domain/rights"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/database/postgres"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/database/postgres/repositories"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/database/redis"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/database/snowflake"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/messaging/kafka"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/m0th3rfkr/ejecucion-publica/internal/interfaces/http"
	"github.com/m0th3rfkr/ejecucion-publica/internal/interfaces/http/handlers"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	migrationsDir := flag.String("migrations", "", "run database migrations from this directory before serving")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, *migrationsDir); err != nil {
		logger.Fatal("server failed", logging.Err(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func run(cfg *config.Config, logger logging.Logger, migrationsDir string) error {
	logger.Info("starting rights lookup API server",
		logging.Int("port", cfg.Server.Port),
		logging.Bool("snowflake", cfg.Snowflake.Enabled),
		logging.Bool("redis", cfg.Redis.Enabled),
		logging.Bool("kafka", cfg.Kafka.Enabled),
	)

	health := handlers.NewHealthHandler(logger)

	// Catalog backend: warehouse or mirror.
	var (
		catalog     rights.CatalogReader
		metadata    rights.MetadataReader
		territories rights.TerritoryDirectory
	)
	if cfg.Snowflake.Enabled {
		conn, err := snowflake.NewConnection(cfg.Snowflake, logger)
		if err != nil {
			return err
		}
		defer conn.Close()

		catalog = snowflake.NewCatalogReader(conn, logger)
		metadata = snowflake.NewMetadataReader(conn, logger)
		territories = snowflake.NewTerritoryReader(conn, logger)
		health.Register("snowflake", conn)
	} else {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		conn, err := postgres.NewConnection(connectCtx, cfg.Database, logger)
		cancel()
		if err != nil {
			return err
		}
		defer conn.Close()

		if migrationsDir != "" {
			if err := conn.RunMigrations(migrationsDir); err != nil {
				return err
			}
		}

		catalog = repositories.NewCatalogRepository(conn.Pool(), logger)
		metadata = repositories.NewMetadataRepository(conn.Pool(), logger)
		territories = repositories.NewTerritoryRepository(conn.Pool(), logger)
		health.Register("database", conn)
	}

	// Metrics.
	var (
		metrics   *prometheus.LookupMetrics
		collector prometheus.MetricsCollector
	)
	if cfg.Metrics.Enabled {
		var err error
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		})
		if err != nil {
			return err
		}
		metrics = prometheus.NewLookupMetrics(collector)
	}

	// Optional metadata cache.
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		cache := redis.NewCache(redisClient, logger, redis.WithPrefix(cfg.Redis.KeyPrefix))
		metadata = lookup.NewCachedMetadataReader(metadata, cache, cfg.Redis.MetadataTTL, metrics, logger)
		health.Register("redis", handlers.PingerFunc(redisClient.Ping))
	}

	// Optional audit producer.
	opts := []lookup.Option{}
	if metrics != nil {
		opts = append(opts, lookup.WithMetrics(metrics))
	}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewAuditProducer(cfg.Kafka, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
		opts = append(opts, lookup.WithAuditPublisher(producer))
	}

	service := lookup.NewService(cfg.Lookup, catalog, metadata, territories, logger, opts...)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		LookupHandler:    handlers.NewLookupHandler(service, logger),
		HealthHandler:    health,
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
	})
	server := httpserver.NewServer(cfg.Server.Port, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("received shutdown signal", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(ctx)
}
