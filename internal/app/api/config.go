package api

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	platformpostgres "github.com/Apurer/svgboard-api/internal/platform/postgres"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageAuto     = "auto"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	StorageBackend  string        `env:"STORAGE_BACKEND" envDefault:"auto"`
	PostgresDSN     string        `env:"POSTGRES_DSN"`
	PostgresDriver  string        `env:"POSTGRES_DRIVER" envDefault:"pgx"`
	SQLitePath      string        `env:"SQLITE_PATH"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"svgboard-api"`
	ServiceVersion  string        `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"local"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure    bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads an optional .env file, then environment variables, and
// validates the result.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.PostgresDriver = strings.ToLower(strings.TrimSpace(c.PostgresDriver))
	c.PostgresDSN = strings.TrimSpace(c.PostgresDSN)
	c.SQLitePath = strings.TrimSpace(c.SQLitePath)
	origins := c.CORSOrigins[:0]
	for _, origin := range c.CORSOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.CORSOrigins = origins
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case StorageAuto, StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.PostgresDriver {
	case platformpostgres.DriverPgx, platformpostgres.DriverPq:
	default:
		return fmt.Errorf("unknown POSTGRES_DRIVER %q", c.PostgresDriver)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
