package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/broker/kafka"
	"github.com/segyhp/booking-engine/internal/config"
	"github.com/segyhp/booking-engine/internal/obs"
	"github.com/segyhp/booking-engine/internal/repository"
	"github.com/segyhp/booking-engine/internal/service"
)

// staleExpirer is implemented by service.OutcomeService
type staleExpirer interface {
	ExpireStale(ctx context.Context, maxAge time.Duration, batchSize int) (int, error)
}

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.Server.Env, cfg.Logging.Level, cfg.Logging.Format).With("component", "scheduler")
	slog.SetDefault(logger)
	logger.Info("starting payment scheduler")

	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	var publisher service.EventPublisher = kafka.NewLogPublisher(logger)
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		producer, err := kafka.NewProducer(brokers, cfg.Kafka.TopicPrefix, nil)
		if err != nil {
			logger.Error("failed to initialize kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = producer
	}

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.GetBackendTimeout())
	outcomes := service.NewOutcomeService(backendClient, repository.NewIntentRepository(db), publisher,
		cfg.Gateway.WebhookSecret, cfg.Backend.ServiceToken, time.Now, logger)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Warn("unknown scheduler timezone, using UTC", "timezone", cfg.Scheduler.Timezone, "error", err)
		location = time.UTC
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(
		cron.WithLocation(location),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	if err := setupCronJobs(c, cfg, outcomes, logger); err != nil {
		logger.Error("failed to schedule jobs", "error", err)
		os.Exit(1)
	}

	c.Start()
	logger.Info("scheduler started", "interval", cfg.GetSchedulerInterval().String(), "timezone", location.String())

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, outcomes staleExpirer, logger *slog.Logger) error {
	// Gateway checkouts the user abandoned never produce a webhook
	spec := fmt.Sprintf("@every %s", cfg.GetSchedulerInterval())
	job := expireStaleIntents(outcomes, cfg.GetPendingTimeout(), cfg.Scheduler.BatchSize, cfg.GetSchedulerInterval(), logger)
	if _, err := c.AddFunc(spec, job); err != nil {
		return fmt.Errorf("scheduling stale intent expiry: %w", err)
	}
	return nil
}

// expireStaleIntents builds the job body. A run may not outlast its interval.
func expireStaleIntents(outcomes staleExpirer, maxAge time.Duration, batchSize int, timeout time.Duration, logger *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		expired, err := outcomes.ExpireStale(ctx, maxAge, batchSize)
		if err != nil {
			logger.Error("stale intent expiry failed", "error", err, "expired", expired)
			return
		}
		logger.Info("stale intent expiry finished", "expired", expired, "took", time.Since(start).String())
	}
}
