package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Database drivers accepted in DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains server configuration parameters.
type Config struct {
	Env       string    `env:"APP_ENV" envDefault:"development"`
	LogLevel  int       `env:"LOG_LEVEL" envDefault:"0"`
	HTTP      HTTP      `envPrefix:"HTTP_"`
	Database  Database  `envPrefix:"DATABASE_"`
	JWT       JWT       `envPrefix:"JWT_"`
	Auth      Auth      `envPrefix:"AUTH_"`
	Progress  Progress  `envPrefix:"PROGRESS_"`
	Telemetry Telemetry `envPrefix:"OTEL_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string        `env:"PORT" envDefault:"3000"`
	EnableHTTPS        bool          `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string        `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string        `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	ReadTimeout        time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
}

// Database contains database connection parameters.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	// DSN is a file path for sqlite and a connection URL for postgres.
	DSN string `env:"DSN" envDefault:"dev.db"`
}

// JWT contains JWT-related parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Auth controls bearer token enforcement on user-scoped routes.
type Auth struct {
	Required bool `env:"REQUIRED" envDefault:"false"`
}

// Progress contains level progression rules.
type Progress struct {
	MaxLevel        int  `env:"MAX_LEVEL" envDefault:"5"`
	EnforceSequence bool `env:"ENFORCE_SEQUENCE" envDefault:"false"`
}

// Telemetry contains tracing exporter parameters. Tracing is off when Endpoint is empty.
type Telemetry struct {
	Endpoint    string `env:"ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"mento-server"`
}

// NewConfig loads configuration from a .env file, if present, and environment variables.
func NewConfig() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", c.Env)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres; got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_DSN is required")
	}

	if c.Progress.MaxLevel <= 0 {
		return errors.New("PROGRESS_MAX_LEVEL must be positive")
	}

	if c.Env == EnvProduction && c.JWT.Secret == "devsecret" {
		return errors.New("JWT_SECRET must be set in production")
	}

	return nil
}

// IsProduction reports whether verbose diagnostics must be withheld from clients.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
