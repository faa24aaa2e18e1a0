package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
}

// New reads configuration from the environment. A .env file next to the
// binary is loaded first when present, real environment variables win.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.Port = getEnv("APP_PORT", "8080")

	cfg.Postgres.Host = os.Getenv("DB_HOST")
	if cfg.Postgres.Host == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Postgres.Port = getEnv("DB_PORT", "5432")
	cfg.Postgres.User = os.Getenv("DB_USER")
	if cfg.Postgres.User == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	if cfg.Postgres.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	if cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getEnv("MIGRATIONS_PATH", "migrations")

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MaxConns = int32(maxConns)

	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MinConns = int32(minConns)

	lifetimeMin, err := getEnvInt("DB_MAX_CONN_LIFETIME_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MaxConnLifetime = time.Duration(lifetimeMin) * time.Minute

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, v, err)
	}
	return n, nil
}
