package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the booking engine
type Config struct {
	Server     ServerConfig     `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:",squash"`
	Redis      RedisConfig      `mapstructure:",squash"`
	Backend    BackendConfig    `mapstructure:",squash"`
	Gateway    GatewayConfig    `mapstructure:",squash"`
	Kafka      KafkaConfig      `mapstructure:",squash"`
	Scheduler  SchedulerConfig  `mapstructure:",squash"`
	Logging    LoggingConfig    `mapstructure:",squash"`
	Business   BusinessConfig   `mapstructure:",squash"`
	Submission SubmissionConfig `mapstructure:",squash"`
	Health     HealthConfig     `mapstructure:",squash"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`

	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"DATABASE_URL"`
	Host            string `mapstructure:"DATABASE_HOST"`
	Port            string `mapstructure:"DATABASE_PORT"`
	Name            string `mapstructure:"DATABASE_NAME"`
	User            string `mapstructure:"DATABASE_USER"`
	Password        string `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime string `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	URL       string `mapstructure:"REDIS_URL"`
	Host      string `mapstructure:"REDIS_HOST"`
	Port      string `mapstructure:"REDIS_PORT"`
	Password  string `mapstructure:"REDIS_PASSWORD"`
	DB        int    `mapstructure:"REDIS_DB"`
	KeyPrefix string `mapstructure:"REDIS_KEY_PREFIX"`
}

type BackendConfig struct {
	BaseURL      string `mapstructure:"BACKEND_BASE_URL"`
	Timeout      string `mapstructure:"BACKEND_TIMEOUT"`
	ServiceToken string `mapstructure:"BACKEND_SERVICE_TOKEN"`
}

type GatewayConfig struct {
	WebhookSecret  string `mapstructure:"GATEWAY_WEBHOOK_SECRET"`
	PendingTimeout string `mapstructure:"GATEWAY_PENDING_TIMEOUT"`
}

type KafkaConfig struct {
	Brokers     string `mapstructure:"KAFKA_BROKERS"`
	TopicPrefix string `mapstructure:"KAFKA_TOPIC_PREFIX"`
}

type SchedulerConfig struct {
	Interval  string `mapstructure:"SCHEDULER_INTERVAL"`
	Timezone  string `mapstructure:"SCHEDULER_TIMEZONE"`
	BatchSize int    `mapstructure:"SCHEDULER_BATCH_SIZE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	DownPaymentRatio string `mapstructure:"DOWN_PAYMENT_RATIO"`
}

type SubmissionConfig struct {
	LockTTL       string `mapstructure:"SUBMISSION_LOCK_TTL"`
	RedirectDelay string `mapstructure:"REDIRECT_DELAY"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_PORT":                "8080",
	"SERVER_HOST":                "0.0.0.0",
	"ENV":                        "development",
	"SERVER_READ_TIMEOUT":        "15s",
	"SERVER_WRITE_TIMEOUT":       "15s",
	"DATABASE_URL":               "",
	"DATABASE_HOST":              "localhost",
	"DATABASE_PORT":              "5432",
	"DATABASE_NAME":              "booking_engine",
	"DATABASE_USER":              "postgres",
	"DATABASE_PASSWORD":          "",
	"DATABASE_SSLMODE":           "disable",
	"DATABASE_MAX_OPEN_CONNS":    25,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "5m",
	"REDIS_URL":                  "",
	"REDIS_HOST":                 "localhost",
	"REDIS_PORT":                 "6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"REDIS_KEY_PREFIX":           "booking:",
	"BACKEND_BASE_URL":           "",
	"BACKEND_TIMEOUT":            "10s",
	"BACKEND_SERVICE_TOKEN":      "",
	"GATEWAY_WEBHOOK_SECRET":     "",
	"GATEWAY_PENDING_TIMEOUT":    "30m",
	"KAFKA_BROKERS":              "",
	"KAFKA_TOPIC_PREFIX":         "payment",
	"SCHEDULER_INTERVAL":         "5m",
	"SCHEDULER_TIMEZONE":         "Africa/Lagos",
	"SCHEDULER_BATCH_SIZE":       100,
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "",
	"DOWN_PAYMENT_RATIO":         "0.6",
	"SUBMISSION_LOCK_TTL":        "30s",
	"REDIRECT_DELAY":             "2s",
	"HEALTH_CHECK_TIMEOUT":       "5s",
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Read from environment variables
	v.AutomaticEnv()

	// Try to read from .env file (optional)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}

	ratio, err := decimal.NewFromString(c.Business.DownPaymentRatio)
	if err != nil {
		return fmt.Errorf("DOWN_PAYMENT_RATIO must be a valid decimal: %w", err)
	}
	if !ratio.IsPositive() || ratio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("DOWN_PAYMENT_RATIO must be between 0 and 1")
	}

	durations := map[string]string{
		"SERVER_READ_TIMEOUT":        c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":       c.Server.WriteTimeout,
		"BACKEND_TIMEOUT":            c.Backend.Timeout,
		"GATEWAY_PENDING_TIMEOUT":    c.Gateway.PendingTimeout,
		"SCHEDULER_INTERVAL":         c.Scheduler.Interval,
		"SUBMISSION_LOCK_TTL":        c.Submission.LockTTL,
		"REDIRECT_DELAY":             c.Submission.RedirectDelay,
		"HEALTH_CHECK_TIMEOUT":       c.Health.Timeout,
		"DATABASE_CONN_MAX_LIFETIME": c.Database.ConnMaxLifetime,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
	}

	if c.Scheduler.BatchSize <= 0 {
		return fmt.Errorf("SCHEDULER_BATCH_SIZE must be greater than 0")
	}

	if c.IsProduction() && c.Gateway.WebhookSecret == "" {
		return fmt.Errorf("GATEWAY_WEBHOOK_SECRET is required in production")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// DSN returns DATABASE_URL or a lib/pq keyword string built from the parts
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name, c.Database.SSLMode)
}

// RedisAddr returns host:port for the redis client
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// KafkaBrokers splits KAFKA_BROKERS on commas. Empty means events are only logged.
func (c *Config) KafkaBrokers() []string {
	var brokers []string
	for _, broker := range strings.Split(c.Kafka.Brokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// GetDownPaymentRatio returns the down payment ratio as decimal
func (c *Config) GetDownPaymentRatio() decimal.Decimal {
	ratio, _ := decimal.NewFromString(c.Business.DownPaymentRatio)
	return ratio
}

// GetReadTimeout returns the HTTP server read timeout as duration
func (c *Config) GetReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout)
}

// GetWriteTimeout returns the HTTP server write timeout as duration
func (c *Config) GetWriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout)
}

// GetBackendTimeout returns the backend request timeout as duration
func (c *Config) GetBackendTimeout() time.Duration {
	return mustDuration(c.Backend.Timeout)
}

// GetPendingTimeout returns how long a gateway checkout may stay pending
func (c *Config) GetPendingTimeout() time.Duration {
	return mustDuration(c.Gateway.PendingTimeout)
}

// GetSchedulerInterval returns the scheduler interval as duration
func (c *Config) GetSchedulerInterval() time.Duration {
	return mustDuration(c.Scheduler.Interval)
}

// GetLockTTL returns the submission lock TTL as duration
func (c *Config) GetLockTTL() time.Duration {
	return mustDuration(c.Submission.LockTTL)
}

// GetRedirectDelay returns the post-confirmation redirect delay as duration
func (c *Config) GetRedirectDelay() time.Duration {
	return mustDuration(c.Submission.RedirectDelay)
}

// GetConnMaxLifetime returns the database connection lifetime as duration
func (c *Config) GetConnMaxLifetime() time.Duration {
	return mustDuration(c.Database.ConnMaxLifetime)
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	return mustDuration(c.Health.Timeout)
}

// Validate has already rejected unparsable values
func mustDuration(value string) time.Duration {
	duration, _ := time.ParseDuration(value)
	return duration
}
