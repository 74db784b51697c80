package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrNilConfig is returned when a nil Config is provided.
var ErrNilConfig = errors.New("config is nil")

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is the prefix of environment variable overrides, e.g.
// GRADE_STORE_DRIVER.
const EnvPrefix = "GRADE"

// Config holds the full application configuration.
type Config struct {
	Reader ReaderConfig `mapstructure:"reader"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// ReaderConfig selects how documents are turned into text.
type ReaderConfig struct {
	// Backend is "text" (page plain text) or "content" (content streams).
	Backend string `mapstructure:"backend"`
}

// StoreConfig holds the curriculum catalog settings.
type StoreConfig struct {
	// Driver is "graph", "sqlite" or "memory".
	Driver string `mapstructure:"driver"`
	// Path is the bolt directory or sqlite file; unused by "memory".
	Path string `mapstructure:"path"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ExtractTimeout time.Duration `mapstructure:"extract_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("reader.backend", "text")
	v.SetDefault("store.driver", "graph")
	v.SetDefault("store.path", "data/curricula.cayley")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.extract_timeout", 30*time.Second)
	v.SetDefault("server.max_upload_bytes", 20<<20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// BindEnv makes every key overridable from GRADE_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the global Viper instance into a Config struct.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads v into a Config struct, filling in defaults for unset keys.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg for out-of-range values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return ErrNilConfig
	}
	switch cfg.Store.Driver {
	case "graph", "sqlite":
		if cfg.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for driver %q", ErrInvalidConfig, cfg.Store.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, cfg.Store.Driver)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, cfg.Server.Port)
	}
	if cfg.Server.ExtractTimeout <= 0 {
		return fmt.Errorf("%w: server.extract_timeout must be positive", ErrInvalidConfig)
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: server.max_upload_bytes must be positive", ErrInvalidConfig)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, cfg.Log.Format)
	}
	return nil
}
