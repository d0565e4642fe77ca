// Package config reads the storefront server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables
const (
	EnvDBPath   = "STOREFRONT_DB_PATH"
	EnvSeedFile = "STOREFRONT_SEED_FILE"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"
)

const (
	// DefaultDBPath keeps the order journal in memory for the life of the process
	DefaultDBPath = ":memory:"
	// DefaultLogLevel is used when STOREFRONT_LOG_LEVEL is unset
	DefaultLogLevel = "info"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the server settings
type Config struct {
	DBPath   string
	SeedFile string // Empty selects the built-in store
	LogLevel string
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		DBPath:   DefaultDBPath,
		LogLevel: DefaultLogLevel,
	}
}

// FromEnv reads the configuration from environment variables, falling back
// to the defaults for unset ones
func FromEnv() Config {
	cfg := Default()
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSeedFile)); v != "" {
		cfg.SeedFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg
}

// Validate checks the configuration for errors
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.SeedFile != "" {
		info, err := os.Stat(c.SeedFile)
		if err != nil {
			return fmt.Errorf("%w: seed file: %v", ErrInvalidConfig, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: seed file %s is a directory", ErrInvalidConfig, c.SeedFile)
		}
	}
	return nil
}

// Level parses LogLevel
func (c Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}

// NewLogger builds a production zap logger at the configured level. It
// writes to stderr because stdout carries the MCP protocol.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
