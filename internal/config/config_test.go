package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com")
	t.Setenv("DOWN_PAYMENT_RATIO", "0.5")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SUBMISSION_LOCK_TTL", "45s")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.True(t, cfg.GetDownPaymentRatio().Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers())
	assert.Equal(t, 45*time.Second, cfg.GetLockTTL())
	assert.Equal(t, 30*time.Minute, cfg.GetPendingTimeout())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_MissingBackend(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := Load()

	assert.ErrorContains(t, err, "BACKEND_BASE_URL is required")
}

func validConfig() *Config {
	return &Config{
		Server:     ServerConfig{Port: "8080", Env: "production", ReadTimeout: "15s", WriteTimeout: "15s"},
		Backend:    BackendConfig{BaseURL: "https://api.example.com", Timeout: "10s"},
		Gateway:    GatewayConfig{WebhookSecret: "secret", PendingTimeout: "30m"},
		Scheduler:  SchedulerConfig{Interval: "5m", BatchSize: 100},
		Business:   BusinessConfig{DownPaymentRatio: "0.6"},
		Submission: SubmissionConfig{LockTTL: "30s", RedirectDelay: "5s"},
		Health:     HealthConfig{Timeout: "5s"},
		Database:   DatabaseConfig{ConnMaxLifetime: "5m"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectedErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "ratio of one", mutate: func(c *Config) { c.Business.DownPaymentRatio = "1" }, expectedErr: "DOWN_PAYMENT_RATIO must be between 0 and 1"},
		{name: "ratio not a number", mutate: func(c *Config) { c.Business.DownPaymentRatio = "sixty" }, expectedErr: "DOWN_PAYMENT_RATIO must be a valid decimal"},
		{name: "bad lock ttl", mutate: func(c *Config) { c.Submission.LockTTL = "soon" }, expectedErr: "SUBMISSION_LOCK_TTL must be a valid duration"},
		{name: "zero batch", mutate: func(c *Config) { c.Scheduler.BatchSize = 0 }, expectedErr: "SCHEDULER_BATCH_SIZE must be greater than 0"},
		{name: "production without webhook secret", mutate: func(c *Config) { c.Gateway.WebhookSecret = "" }, expectedErr: "GATEWAY_WEBHOOK_SECRET is required in production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.expectedErr)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "pw", Name: "booking_engine", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=booking_engine sslmode=disable", cfg.DSN())

	cfg.Database.URL = "postgres://app:pw@db/booking_engine"
	assert.Equal(t, "postgres://app:pw@db/booking_engine", cfg.DSN())
}
