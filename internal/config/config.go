package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds application settings loaded from environment variables, with
// defaults suited to local development.
type Config struct {
	AppName string
	Env     string // development or production

	// Postgres connection string; empty selects the in-memory repository.
	DatabaseURL string

	// Kafka broker addresses; empty disables event publishing.
	KafkaBrokers []string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads .env if present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:     getenv("APP_NAME", "bankapp"),
		Env:         getenv("APP_ENV", "development"),
		DatabaseURL: getenv("DATABASE_URL", ""),
	}
	for _, b := range strings.Split(getenv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	return cfg
}

// NewLogger returns a logrus logger configured for the environment:
// human-readable debug output in development, JSON at info level otherwise.
func NewLogger(cfg *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
