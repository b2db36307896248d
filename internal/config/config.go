package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port int `env:"PORT" envDefault:"8001"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/crud.sqlite"`

	DBHost          string `env:"DB_HOST"`
	DBPort          string `env:"DB_PORT" envDefault:"5432"`
	DBUsername      string `env:"DB_USERNAME"`
	DBPassword      string `env:"DB_PASSWORD"`
	DBDatabase      string `env:"DB_DATABASE"`
	DBAdminUser     string `env:"DB_ADMIN_USER"`
	DBAdminPassword string `env:"DB_ADMIN_PASSWORD"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxUploadBytes   int64    `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first by godotenv.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	switch c.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH environment variable is required")
		}
	case DriverPostgres:
		required := map[string]string{
			"DB_HOST":     c.DBHost,
			"DB_PORT":     c.DBPort,
			"DB_USERNAME": c.DBUsername,
			"DB_PASSWORD": c.DBPassword,
			"DB_DATABASE": c.DBDatabase,
		}
		for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_DATABASE"} {
			if strings.TrimSpace(required[key]) == "" {
				return fmt.Errorf("%s environment variable is required", key)
			}
		}
		if c.DBAdminUser != "" && c.DBAdminPassword == "" {
			return fmt.Errorf("DB_ADMIN_PASSWORD environment variable is required when DB_ADMIN_USER is set")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %q or %q)", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	return nil
}

// PostgresDSN builds the postgres:// URL for the application database.
func (c *Config) PostgresDSN() string {
	return c.postgresURL(c.DBUsername, c.DBPassword, c.DBDatabase)
}

// PostgresAdminDSN points at the maintenance database with the admin role.
func (c *Config) PostgresAdminDSN() string {
	return c.postgresURL(c.DBAdminUser, c.DBAdminPassword, "postgres")
}

func (c *Config) postgresURL(user, password, database string) string {
	userInfo := url.UserPassword(user, password)
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=disable",
		userInfo.String(),
		c.DBHost,
		c.DBPort,
		url.PathEscape(database),
	)
}

// RedactedPostgresDSN is safe to log.
func (c *Config) RedactedPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:***@%s:%s/%s", c.DBUsername, c.DBHost, c.DBPort, c.DBDatabase)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
