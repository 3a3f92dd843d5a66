// Package config loads service configuration from the environment and an optional .env file
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/mrled/suns/msgsvc/internal/logger"
	"github.com/mrled/suns/msgsvc/internal/repository/repofactory"
)

// Profiles selected with ENV_NAME
const (
	EnvTest = "test"
	EnvDev  = "dev"
	EnvProd = "prod"
)

// DefaultDevSQLitePath is where the dev profile keeps its database
const DefaultDevSQLitePath = "./data/app.db"

var ErrNoBackend = errors.New("prod profile requires DATA_FILE, SQLITE_PATH, BADGER_PATH or DYNAMODB_TABLE")

// Config is the full service configuration
type Config struct {
	EnvName string `env:"ENV_NAME,default=dev"`

	Host      string `env:"HOST,default=0.0.0.0"`
	Port      int    `env:"PORT,default=8080"`
	APIPrefix string `env:"API_PREFIX,default=/api/v1"`

	MessagesPerPage int `env:"MESSAGES_PER_PAGE,default=10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE,default=100"`

	LogLevel     string `env:"LOG_LEVEL,default=info"`
	LogFormat    string `env:"LOG_FORMAT,default=json"`
	LogAddSource bool   `env:"LOG_ADD_SOURCE,default=false"`

	DataFile       string `env:"DATA_FILE"`
	SQLitePath     string `env:"SQLITE_PATH"`
	BadgerPath     string `env:"BADGER_PATH"`
	DynamoTable    string `env:"DYNAMODB_TABLE"`
	DynamoEndpoint string `env:"DYNAMODB_ENDPOINT"`

	SnapshotBucket   string `env:"SNAPSHOT_BUCKET"`
	SnapshotKey      string `env:"SNAPSHOT_KEY,default=messages.json"`
	SnapshotEndpoint string `env:"SNAPSHOT_ENDPOINT"`

	AuthJWTSecret     string        `env:"AUTH_JWT_SECRET"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=1h"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads an optional .env file (or the given files) into the process
// environment without overriding variables that are already set, then
// decodes the environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return FromEnvSet(es)
}

// FromEnvSet decodes a Config from an explicit set of variables
func FromEnvSet(es env.EnvSet) (*Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that struct tags cannot express
func (c *Config) Validate() error {
	switch c.EnvName {
	case EnvTest, EnvDev, EnvProd:
	default:
		return fmt.Errorf("config error: ENV_NAME must be one of %s, %s, %s; got %q", EnvTest, EnvDev, EnvProd, c.EnvName)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT out of range: %d", c.Port)
	}
	if c.MessagesPerPage <= 0 {
		return fmt.Errorf("config error: MESSAGES_PER_PAGE must be positive")
	}
	if c.MaxPageSize < c.MessagesPerPage {
		return fmt.Errorf("config error: MAX_PAGE_SIZE (%d) is smaller than MESSAGES_PER_PAGE (%d)", c.MaxPageSize, c.MessagesPerPage)
	}
	if c.EnvName == EnvProd && c.Repository().Backend() == repofactory.BackendMemory {
		return ErrNoBackend
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Logger converts the logging settings into a logger.Config
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:     c.LogLevel,
		Format:    c.LogFormat,
		AddSource: c.LogAddSource,
	}
}

// Repository returns the storage configuration.
// The test profile always uses memory; dev falls back to SQLite when nothing is set.
func (c *Config) Repository() repofactory.Config {
	if c.EnvName == EnvTest {
		return repofactory.Config{}
	}

	rc := repofactory.Config{
		FilePath:       c.DataFile,
		SQLitePath:     c.SQLitePath,
		BadgerPath:     c.BadgerPath,
		DynamoTable:    c.DynamoTable,
		DynamoEndpoint: c.DynamoEndpoint,
	}
	if c.EnvName == EnvDev && rc.Backend() == repofactory.BackendMemory {
		rc.SQLitePath = DefaultDevSQLitePath
	}
	return rc
}
