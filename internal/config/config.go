// Package config loads themed configuration from file, environment
// and flag overrides, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyStoreBackend = "store.backend"
	KeyStorePath    = "store.path"
	KeyThemeKey     = "theme.key"
	KeyDebounce     = "theme.debounce"
	KeyLogLevel     = "log.level"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const envPrefix = "THEMED"

// Config is the resolved themed configuration.
type Config struct {
	// StoreBackend selects the settings store: "file" or "sqlite".
	StoreBackend string

	// StorePath is the file-store root directory, or the SQLite
	// database path.
	StorePath string

	// ThemeKey is the record key holding the persisted theme.
	ThemeKey string

	// Debounce is the persist cooldown window.
	Debounce time.Duration

	// LogLevel is the zerolog level name.
	LogLevel string
}

// Option overrides load behaviour, mainly for tests.
type Option func(*settings)

type settings struct {
	configDir string
}

// WithConfigDir overrides the directory searched for themed.yaml and
// used for the default store location.
func WithConfigDir(dir string) Option {
	return func(s *settings) {
		s.configDir = dir
	}
}

// Load resolves configuration with the precedence:
// defaults < themed.yaml < environment < overrides.
func Load(overrides map[string]any, opts ...Option) (*Config, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.configDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate user config directory: %w", err)
		}
		s.configDir = filepath.Join(base, "themed")
	}

	v := viper.New()
	v.SetDefault(KeyStoreBackend, BackendFile)
	v.SetDefault(KeyStorePath, filepath.Join(s.configDir, "settings"))
	v.SetDefault(KeyThemeKey, "theme.json")
	v.SetDefault(KeyDebounce, 500*time.Millisecond)
	v.SetDefault(KeyLogLevel, "info")

	v.SetConfigName("themed")
	v.SetConfigType("yaml")
	v.AddConfigPath(s.configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	cfg := &Config{
		StoreBackend: v.GetString(KeyStoreBackend),
		StorePath:    v.GetString(KeyStorePath),
		ThemeKey:     v.GetString(KeyThemeKey),
		Debounce:     v.GetDuration(KeyDebounce),
		LogLevel:     v.GetString(KeyLogLevel),
	}
	if cfg.StoreBackend != BackendFile && cfg.StoreBackend != BackendSQLite {
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if cfg.Debounce <= 0 {
		return nil, fmt.Errorf("theme.debounce must be positive, got %s", cfg.Debounce)
	}
	return cfg, nil
}
