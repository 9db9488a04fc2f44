package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/openmined/statusapi/internal/db"
	"github.com/openmined/statusapi/internal/readiness"
	"github.com/ulule/limiter/v3"
)

const (
	DefaultAddr            = "0.0.0.0:8000"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultAppVersion      = "1.0.0"
	DefaultEnvironment     = "dev"
)

type Config struct {
	HTTP    HTTPConfig
	DB      db.Config
	Startup StartupConfig
	App     AppConfig
}

type HTTPConfig struct {
	Addr            string
	RateLimit       string
	ShutdownTimeout time.Duration
}

// StartupConfig drives the readiness gate run before the listener opens.
type StartupConfig struct {
	Retries     int
	RetryDelay  time.Duration
	AutoMigrate bool
}

// AppConfig is reported verbatim by /info.
type AppConfig struct {
	Version     string
	Environment string
}

// DefaultConfig mirrors the documented environment defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		DB: db.Config{
			Driver:  db.DriverPostgres,
			Host:    db.DefaultHost,
			Port:    db.DefaultPort,
			SSLMode: db.DefaultSSLMode,
			Path:    db.DefaultPath,
		},
		Startup: StartupConfig{
			Retries:    readiness.DefaultAttempts,
			RetryDelay: readiness.DefaultDelay,
		},
		App: AppConfig{
			Version:     DefaultAppVersion,
			Environment: DefaultEnvironment,
		},
	}
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http addr is required")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("http shutdown timeout must be positive")
	}
	if c.HTTP.RateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(c.HTTP.RateLimit); err != nil {
			return fmt.Errorf("http rate limit %q: %w", c.HTTP.RateLimit, err)
		}
	}

	if err := c.DB.Validate(); err != nil {
		return err
	}

	if c.Startup.Retries < 0 {
		return fmt.Errorf("startup retries must not be negative")
	}
	if c.Startup.RetryDelay < 0 {
		return fmt.Errorf("startup retry delay must not be negative")
	}
	return nil
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.HTTP.Addr),
		slog.String("rate_limit", c.HTTP.RateLimit),
		slog.Any("db", c.DB),
		slog.Int("startup_retries", c.Startup.Retries),
		slog.Duration("startup_retry_delay", c.Startup.RetryDelay),
		slog.Bool("auto_migrate", c.Startup.AutoMigrate),
		slog.String("version", c.App.Version),
		slog.String("environment", c.App.Environment),
	)
}
