// Package config loads the CLI configuration from a YAML file, a local
// .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration.
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Store         StoreConfig         `mapstructure:"store"`
	Export        ExportConfig        `mapstructure:"export"`
	Upload        UploadConfig        `mapstructure:"upload"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Stub          StubConfig          `mapstructure:"stub"`
	Logger        LoggerConfig        `mapstructure:"logger"`
}

// APIConfig holds backend client configuration.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ReadAttempts uint          `mapstructure:"read_attempts"`
}

// CacheConfig holds the read-cache configuration.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StoreConfig holds the local draft store configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig holds report export configuration.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// UploadConfig holds attachment preflight configuration.
type UploadConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// NotificationsConfig holds the notification center configuration.
type NotificationsConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// StubConfig holds the bundled stub backend's server configuration.
type StubConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Seed         bool          `mapstructure:"seed"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configuration. An explicit path must exist; with an empty
// path the default locations are searched and built-in defaults apply
// when no file is found.
func Load(path string) (*Config, error) {
	// A local .env participates before AutomaticEnv snapshots lookups.
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CLAIMDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("claimdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "claimdesk"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. The API default points at
// the bundled stub backend so a fresh checkout works without any setup.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8787")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.read_attempts", 2)

	v.SetDefault("cache.ttl", 30*time.Second)

	v.SetDefault("store.path", "claimdesk.db")

	v.SetDefault("export.output_dir", "reports")

	v.SetDefault("upload.max_size_bytes", 10<<20)

	v.SetDefault("notifications.capacity", 50)

	v.SetDefault("stub.host", "0.0.0.0")
	v.SetDefault("stub.port", 8787)
	v.SetDefault("stub.seed", true)
	v.SetDefault("stub.read_timeout", 30*time.Second)
	v.SetDefault("stub.write_timeout", 30*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")
}

// bindEnvVars adds the short env aliases that predate the CLAIMDESK_
// prefix convention.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("api.base_url", "CLAIMDESK_API_URL")
	v.BindEnv("logger.level", "CLAIMDESK_LOG_LEVEL")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Stub.Port < 1 || c.Stub.Port > 65535 {
		return fmt.Errorf("stub.port %d out of range", c.Stub.Port)
	}
	return nil
}
