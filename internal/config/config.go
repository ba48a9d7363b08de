package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Cheertaboi/deal-service/pkg/db"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	ServerPort int

	// Location is the reference timezone for "today" and window checks.
	Location *time.Location
	Store    string
	Postgres db.PostgresConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RedeemTimeout time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	JaegerEndpoint string
}

// LoadConfig reads an optional .env file (or the given files) and then the
// environment. A missing .env is not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	config := &Config{}
	var err error

	if config.ServerPort, err = strconv.Atoi(getEnvOrDefault("PORT", "8080")); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	tz := getEnvOrDefault("DEAL_TIMEZONE", "Europe/London")
	if config.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid DEAL_TIMEZONE %q: %w", tz, err)
	}

	config.Store = getEnvOrDefault("STORE", StorePostgres)
	if config.Store != StorePostgres && config.Store != StoreMemory {
		return nil, fmt.Errorf("invalid STORE %q: want %s or %s", config.Store, StorePostgres, StoreMemory)
	}
	if config.Postgres, err = db.LoadPostgresConfig(); err != nil {
		return nil, err
	}

	config.RedisAddr = os.Getenv("REDIS_ADDR")
	config.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if config.RedisDB, err = strconv.Atoi(getEnvOrDefault("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if config.CacheTTL, err = time.ParseDuration(getEnvOrDefault("CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if config.RedeemTimeout, err = time.ParseDuration(getEnvOrDefault("REDEEM_TIMEOUT", "8s")); err != nil {
		return nil, fmt.Errorf("invalid REDEEM_TIMEOUT: %w", err)
	}

	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	config.LogFormat = getEnvOrDefault("LOG_FORMAT", "json")
	config.LogFile = os.Getenv("LOG_FILE")

	config.JaegerEndpoint = os.Getenv("JAEGER_ENDPOINT")

	return config, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
