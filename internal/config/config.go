package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is read from environment variables, optionally seeded by a .env
// file in the working directory.
type Config struct {
	Host           string `mapstructure:"HOST"`
	Port           string `mapstructure:"PORT"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`

	StoreDriver string `mapstructure:"STORE_DRIVER"`

	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisDB      int    `mapstructure:"REDIS_DB"`
	IdempTTLSecs int    `mapstructure:"IDEMPOTENCY_TTL_SECONDS"`
}

var defaults = map[string]any{
	"HOST":                    "127.0.0.1",
	"PORT":                    "3000",
	"SERVICE_NAME":            "bank-loan-service",
	"SERVICE_VERSION":         "1.0.0",
	"LOG_LEVEL":               "info",
	"STORE_DRIVER":            StoreMemory,
	"REDIS_ADDR":              "",
	"REDIS_DB":                0,
	"IDEMPOTENCY_TTL_SECONDS": 300,
}

func Load() (*Config, error) {
	return load(".")
}

func load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("missing HOST")
	}
	if c.Port == "" {
		return errors.New("missing PORT")
	}
	if _, err := net.LookupPort("tcp", c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, StoreMemory, StoreSQLite)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) Addr() string { return net.JoinHostPort(c.Host, c.Port) }

func (c *Config) IdempotencyEnabled() bool { return c.RedisAddr != "" }

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}
