package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplychain/cmd"
	httpin "supplychain/internal/adapters/in/http"
	"supplychain/internal/adapters/out/postgres"
	"supplychain/internal/adapters/out/postgres/telemetryrepo"
	"supplychain/internal/adapters/out/rabbitmq"
	redisfeed "supplychain/internal/adapters/out/redis"
	"supplychain/internal/core/ports"
	"supplychain/internal/jobs"
	"supplychain/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env file not found, relying on environment")
	}

	config, err := cmd.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.SlogLevel()}))
	slog.SetDefault(logger)

	if err := run(config, logger); err != nil {
		logger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(config cmd.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(pgdriver.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	telemetry, closeTelemetry, err := openTelemetryFeed(ctx, config, gormDB)
	if err != nil {
		return err
	}
	defer closeTelemetry()

	ledger, err := rabbitmq.NewLedger(rabbitmq.Config{
		URL:        config.RabbitMQURL,
		Exchange:   config.RabbitMQExchange,
		Queue:      config.RabbitMQQueue,
		RoutingKey: config.RabbitMQRoutingKey,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Warn("Failed to close ledger", "error", err)
		}
	}()

	changeFeed, err := postgres.NewChangeFeed(config.DSN(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := changeFeed.Close(); err != nil {
			logger.Warn("Failed to close change feed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	jobMetrics := metrics.NewCronJobMetrics(registry)
	domainMetrics := metrics.NewDomainMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	app := cmd.NewCompositionRoot(
		config,
		gormDB,
		cmd.Adapters{
			Telemetry:  telemetry,
			Ledger:     ledger,
			ChangeFeed: changeFeed,
		},
		logger,
		jobMetrics,
		domainMetrics,
	)

	go func() {
		if err := changeFeed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Change feed stopped", "error", err)
			stop()
		}
	}()
	go func() {
		if err := app.CreateShipmentObserver().Run(ctx); err != nil {
			logger.Error("Shipment observer stopped", "error", err)
			stop()
		}
	}()

	var scheduled []jobs.Job
	if config.SimulateSensors {
		scheduled = append(scheduled, app.CreateSensorSimulationJob())
	}
	jobManager := jobs.NewJobManager(scheduled...)
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpin.NewRequestValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(httpMetrics.Middleware())
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	app.CreateHTTPServer().Register(e)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", config.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil {
			return err
		}
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openTelemetryFeed(ctx context.Context, config cmd.Config, gormDB *gorm.DB) (ports.TelemetryFeed, func(), error) {
	if config.TelemetryDriver != cmd.TelemetryDriverRedis {
		return telemetryrepo.NewGormTelemetryFeed(gormDB), func() {}, nil
	}

	feed, err := redisfeed.NewTelemetryFeed(ctx, redisfeed.Options{URL: config.RedisURL})
	if err != nil {
		return nil, nil, err
	}
	return feed, func() {
		if err := feed.Close(); err != nil {
			slog.Warn("Failed to close redis telemetry feed", "error", err)
		}
	}, nil
}
