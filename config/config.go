package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Analytics AnalyticsConfig
	Admin     AdminConfig
	App       AppConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	// ImagesDir is served under /images for project screenshots.
	ImagesDir string
}

type AnalyticsConfig struct {
	// DBPath is the SQLite file used for visitor tracking. Empty disables tracking
	// (ANALYTICS_DB=off).
	DBPath    string
	Retention time.Duration
}

type AdminConfig struct {
	Username string
	Password string
}

type AppConfig struct {
	Environment      string
	LogLevel         string
	LogFormat        string
	RotationInterval time.Duration
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	// .env is optional; production deployments set real env vars
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			ImagesDir:       getEnv("IMAGES_DIR", "./images"),
		},
		Analytics: AnalyticsConfig{
			DBPath:    getEnv("ANALYTICS_DB", "portfolio.db"),
			Retention: getEnvAsDuration("VISITOR_RETENTION", 365*24*time.Hour),
		},
		Admin: AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		App: AppConfig{
			Environment:      getEnv("APP_ENV", "development"),
			LogLevel:         getEnv("LOG_LEVEL", "info"),
			LogFormat:        getEnv("LOG_FORMAT", "text"),
			RotationInterval: getEnvAsDuration("ROTATION_INTERVAL", 2*time.Second),
		},
	}

	if strings.EqualFold(cfg.Analytics.DBPath, "off") {
		cfg.Analytics.DBPath = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.App.RotationInterval <= 0 {
		errs = append(errs, errors.New("ROTATION_INTERVAL must be positive"))
	}
	if c.Analytics.Retention <= 0 {
		errs = append(errs, errors.New("VISITOR_RETENTION must be positive"))
	}
	if c.IsProduction() && (c.Admin.Username == "" || c.Admin.Password == "") {
		errs = append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD are required in production"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(c.App.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid duration for %s, using default: %s\n", key, defaultValue)
		return defaultValue
	}

	return value
}
