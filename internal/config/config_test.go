package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvSeedFile, "")
	t.Setenv(EnvLogLevel, "")

	cfg := FromEnv()

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Empty(t, cfg.SeedFile)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("products: []\n"), 0o644))

	t.Setenv(EnvDBPath, "/tmp/journal.db")
	t.Setenv(EnvSeedFile, seed)
	t.Setenv(EnvLogLevel, " DEBUG ")

	cfg := FromEnv()

	assert.Equal(t, Config{DBPath: "/tmp/journal.db", SeedFile: seed, LogLevel: "debug"}, cfg)
	assert.NoError(t, cfg.Validate())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Default(), false},
		{"warn level", Config{DBPath: ":memory:", LogLevel: "warn"}, false},
		{"empty db path", Config{LogLevel: "info"}, true},
		{"unknown level", Config{DBPath: ":memory:", LogLevel: "verbose"}, true},
		{"missing seed", Config{DBPath: ":memory:", LogLevel: "info", SeedFile: filepath.Join(dir, "nope.yaml")}, true},
		{"seed is a directory", Config{DBPath: ":memory:", LogLevel: "info", SeedFile: dir}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
