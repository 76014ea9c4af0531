package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/repository"
)

const (
	devSessionSecret  = "dev-secret-change-in-production"
	defaultSQLitePath = "data/passgen.db"
)

var ErrDevSecretInProduction = errors.New("SESSION_SECRET must be set in production environment")

type Config struct {
	Host           string
	Port           string
	Env            string
	StoreDriver    string
	DatabaseDSN    string
	SessionSecret  string
	SessionExpiry  time.Duration
	RandomSource   string
	RateLimitRPS   float64
	RateLimitBurst int
	ConfigFile     string
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func Load() Config {
	cfg := fromEnv()

	if err := cfg.validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

func fromEnv() Config {
	cfg := Config{
		Host:           getEnv("HOST", "127.0.0.1"),
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		StoreDriver:    getEnv("STORE_DRIVER", repository.DriverMemory),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),
		SessionSecret:  getEnv("SESSION_SECRET", devSessionSecret),
		SessionExpiry:  getDuration("SESSION_EXPIRY", 30*24*time.Hour),
		RandomSource:   getEnv("RANDOM_SOURCE", crypto.SourceChaCha20),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
		ConfigFile:     getEnv("CONFIG_FILE", "passgen.toml"),
	}

	if cfg.StoreDriver == repository.DriverSQLite && cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = defaultSQLitePath
	}

	return cfg
}

func (c Config) validate() error {
	if c.Env == "production" && c.SessionSecret == devSessionSecret {
		return ErrDevSecretInProduction
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("ignoring invalid number", "key", key, "value", v)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
		return fallback
	}
	return n
}
