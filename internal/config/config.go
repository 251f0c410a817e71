package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/information-sharing-networks/blog-api/internal/store"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	MaxRequestSize        int64         `env:"MAX_REQUEST_SIZE,default=1048576"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`

	// store settings
	// DATABASE_URL selects the store backend by scheme: mongodb://, postgres:// or memory://
	DatabaseURL         string        `env:"DATABASE_URL,required=true"`
	TestDatabaseURL     string        `env:"TEST_DATABASE_URL"`
	DatabaseName        string        `env:"DATABASE_NAME,default=blog"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values.
//
// A .env file in the working directory is loaded first if present; variables
// already set in the environment take precedence over the file.
func NewServerConfig() (*ServerEnvironment, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil

}

// StoreURL returns the store address the server should connect to.
// In the test environment TEST_DATABASE_URL is used when it is set.
func (c *ServerEnvironment) StoreURL() string {
	if c.Environment == "test" && c.TestDatabaseURL != "" {
		return c.TestDatabaseURL
	}
	return c.DatabaseURL
}

// StoreOptions returns the connection settings for store.Open
func (c *ServerEnvironment) StoreOptions(logger *slog.Logger) store.Options {
	return store.Options{
		DatabaseName:    c.DatabaseName,
		MaxConnections:  c.DBMaxConnections,
		MinConnections:  c.DBMinConnections,
		MaxConnLifetime: c.DBMaxConnLifetime,
		MaxConnIdleTime: c.DBMaxConnIdleTime,
		ConnectTimeout:  c.DBConnectTimeout,
		PingTimeout:     c.DatabasePingTimeout,
		Logger:          logger,
	}
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if cfg.MaxRequestSize < 1 {
		return fmt.Errorf("MAX_REQUEST_SIZE must be at least 1")
	}

	// Validate database pool configuration
	if cfg.DBMaxConnections < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
	}
	if cfg.DBMinConnections < 0 {
		return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
	}
	if cfg.DBMinConnections > cfg.DBMaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
			cfg.DBMinConnections, cfg.DBMaxConnections)
	}
	if cfg.DBMaxConnLifetime < 0 || cfg.DBMaxConnIdleTime < 0 {
		return fmt.Errorf("DB_MAX_CONN_LIFETIME and DB_MAX_CONN_IDLE_TIME cannot be negative")
	}
	if cfg.DatabaseName == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty")
	}

	return nil
}
