package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/openmined/statusapi/internal/db"
	"github.com/openmined/statusapi/internal/server"
	"github.com/openmined/statusapi/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dotEnvFile = ".env"

// viper key -> environment variable
var envBindings = map[string]string{
	"http.addr":              "HTTP_ADDR",
	"http.rate_limit":        "HTTP_RATE_LIMIT",
	"http.shutdown_timeout":  "HTTP_SHUTDOWN_TIMEOUT",
	"db.driver":              "DB_DRIVER",
	"db.host":                "DB_HOST",
	"db.port":                "DB_PORT",
	"db.name":                "POSTGRES_DB",
	"db.user":                "POSTGRES_USER",
	"db.password":            "POSTGRES_PASSWORD",
	"db.sslmode":             "DB_SSLMODE",
	"db.path":                "DB_PATH",
	"db.connect_timeout":     "DB_CONNECT_TIMEOUT",
	"db.startup_retries":     "DB_STARTUP_RETRIES",
	"db.startup_retry_delay": "DB_STARTUP_RETRY_DELAY",
	"db.auto_migrate":        "DB_AUTO_MIGRATE",
	"app.version":            "APP_VERSION",
	"app.environment":        "ENVIRONMENT",
	"log.level":              "LOG_LEVEL",
}

type cliConfig struct {
	*server.Config
	LogLevel slog.Level
}

func setDefaults(v *viper.Viper) {
	d := server.DefaultConfig()
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.rate_limit", d.HTTP.RateLimit)
	v.SetDefault("http.shutdown_timeout", d.HTTP.ShutdownTimeout)
	v.SetDefault("db.driver", string(d.DB.Driver))
	v.SetDefault("db.host", d.DB.Host)
	v.SetDefault("db.port", d.DB.Port)
	v.SetDefault("db.name", d.DB.Name)
	v.SetDefault("db.user", d.DB.User)
	v.SetDefault("db.password", d.DB.Password)
	v.SetDefault("db.sslmode", d.DB.SSLMode)
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("db.connect_timeout", d.DB.ConnectTimeout)
	v.SetDefault("db.startup_retries", d.Startup.Retries)
	v.SetDefault("db.startup_retry_delay", d.Startup.RetryDelay)
	v.SetDefault("db.auto_migrate", d.Startup.AutoMigrate)
	v.SetDefault("app.version", d.App.Version)
	v.SetDefault("app.environment", d.App.Environment)
	v.SetDefault("log.level", "info")
}

// applyDotEnv layers values from .env just above the defaults, so real env
// vars and the config file still win.
func applyDotEnv(v *viper.Viper, path string) error {
	if !utils.FileExists(path) {
		return nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, env := range envBindings {
		if val, ok := values[env]; ok {
			v.SetDefault(key, val)
		}
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*cliConfig, error) {
	v := viper.New()
	setDefaults(v)

	if err := applyDotEnv(v, dotEnvFile); err != nil {
		return nil, err
	}

	if f := cmd.Flag("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if f := cmd.Flag("bind"); f != nil {
		v.BindPFlag("http.addr", f)
	}
	if f := cmd.Flag("log-level"); f != nil {
		v.BindPFlag("log.level", f)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v.GetString("log.level")))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := &server.Config{
		HTTP: server.HTTPConfig{
			Addr:            v.GetString("http.addr"),
			RateLimit:       v.GetString("http.rate_limit"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		DB: db.Config{
			Driver:         db.Driver(strings.ToLower(v.GetString("db.driver"))),
			Host:           v.GetString("db.host"),
			Port:           v.GetInt("db.port"),
			Name:           v.GetString("db.name"),
			User:           v.GetString("db.user"),
			Password:       v.GetString("db.password"),
			SSLMode:        v.GetString("db.sslmode"),
			Path:           v.GetString("db.path"),
			ConnectTimeout: v.GetDuration("db.connect_timeout"),
		},
		Startup: server.StartupConfig{
			Retries:     v.GetInt("db.startup_retries"),
			RetryDelay:  v.GetDuration("db.startup_retry_delay"),
			AutoMigrate: v.GetBool("db.auto_migrate"),
		},
		App: server.AppConfig{
			Version:     v.GetString("app.version"),
			Environment: v.GetString("app.environment"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cliConfig{Config: cfg, LogLevel: level}, nil
}
