package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/broker/kafka"
	"github.com/segyhp/booking-engine/internal/config"
	"github.com/segyhp/booking-engine/internal/handler"
	"github.com/segyhp/booking-engine/internal/obs"
	"github.com/segyhp/booking-engine/internal/repository"
	"github.com/segyhp/booking-engine/internal/service"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.Server.Env, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	publisher, closePublisher, err := initPublisher(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize kafka producer", "error", err)
		os.Exit(1)
	}
	defer closePublisher()

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.GetBackendTimeout())
	intentRepo := repository.NewIntentRepository(db)

	// Initialize services
	availability := service.NewAvailabilityService(backendClient, logger)
	scheduler := service.NewInstallmentScheduler(cfg.GetDownPaymentRatio())
	dispatcher := service.NewPaymentDispatcher(backendClient, intentRepo, publisher, time.Now, logger)
	locker := service.NewRedisLocker(redisClient, cfg.Redis.KeyPrefix)
	submission := service.NewSubmissionService(availability, scheduler, dispatcher, locker, service.SubmissionOptions{
		LockTTL:       cfg.GetLockTTL(),
		RedirectDelay: cfg.GetRedirectDelay(),
	}, time.Now, logger)
	outcomes := service.NewOutcomeService(backendClient, intentRepo, publisher,
		cfg.Gateway.WebhookSecret, cfg.Backend.ServiceToken, time.Now, logger)
	sessions := service.NewSessionService(backendClient)

	redisPinger := handler.PingFunc(func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	// Setup routes
	router := handler.NewRouter(handler.Handlers{
		Health:       handler.NewHealthHandler(db, redisPinger, cfg.GetHealthTimeout()),
		Availability: handler.NewAvailabilityHandler(availability, time.Now),
		Installment:  handler.NewInstallmentHandler(scheduler, submission, time.Now),
		Submission:   handler.NewSubmissionHandler(submission),
		Payment:      handler.NewPaymentHandler(outcomes, logger),
	}, sessions, logger)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "addr", server.Addr, "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// initPublisher returns a Kafka producer when brokers are configured and a
// logging publisher otherwise.
func initPublisher(cfg *config.Config, logger *slog.Logger) (service.EventPublisher, func(), error) {
	brokers := cfg.KafkaBrokers()
	if len(brokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, payment events will only be logged")
		return kafka.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := kafka.NewProducer(brokers, cfg.Kafka.TopicPrefix, nil)
	if err != nil {
		return nil, nil, err
	}
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", "error", err)
		}
	}, nil
}
