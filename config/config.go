// Package config loads relcache settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/relcache"
)

type Config struct {
	RedisURL      string        `mapstructure:"RELCACHE_REDIS_URL"`
	Prefix        string        `mapstructure:"RELCACHE_PREFIX"`
	DefaultTTL    time.Duration `mapstructure:"RELCACHE_DEFAULT_TTL"`
	DependencyTTL time.Duration `mapstructure:"RELCACHE_DEPENDENCY_TTL"`
	ScanCount     int64         `mapstructure:"RELCACHE_SCAN_COUNT"`
	LogLevel      string        `mapstructure:"RELCACHE_LOG_LEVEL"`
}

var defaults = map[string]any{
	"RELCACHE_REDIS_URL":      "redis://localhost:6379/0",
	"RELCACHE_PREFIX":         "poetry",
	"RELCACHE_DEFAULT_TTL":    "60s",
	"RELCACHE_DEPENDENCY_TTL": "0s",
	"RELCACHE_SCAN_COUNT":     100,
	"RELCACHE_LOG_LEVEL":      "info",
}

// Load reads the environment, after loading .env from the working directory
// when one exists (local development).
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored;
// variables already set in the environment win over the file.
func LoadFile(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", envFile, err)
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.RedisURL == "" {
		errs = append(errs, errors.New("RELCACHE_REDIS_URL is required"))
	}
	if c.Prefix == "" {
		errs = append(errs, errors.New("RELCACHE_PREFIX is required"))
	}
	if c.DefaultTTL < 0 || c.DependencyTTL < 0 {
		errs = append(errs, errors.New("ttl values must not be negative"))
	}
	if c.ScanCount < 0 {
		errs = append(errs, errors.New("RELCACHE_SCAN_COUNT must not be negative"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Level parses LogLevel; empty means info.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(c.LogLevel)
}

// Options maps the config onto relcache.Options. Logger, hooks and codec are
// left for the caller.
func (c *Config) Options() relcache.Options {
	return relcache.Options{
		Prefix:        c.Prefix,
		URL:           c.RedisURL,
		DefaultTTL:    c.DefaultTTL,
		DependencyTTL: c.DependencyTTL,
		ScanCount:     c.ScanCount,
	}
}

// String implements fmt.Stringer with the URL password masked.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  RedisURL: %s\n", redactURL(c.RedisURL)))
	sb.WriteString(fmt.Sprintf("  Prefix: %s\n", c.Prefix))
	sb.WriteString(fmt.Sprintf("  DefaultTTL: %s\n", c.DefaultTTL))
	sb.WriteString(fmt.Sprintf("  DependencyTTL: %s\n", c.DependencyTTL))
	sb.WriteString(fmt.Sprintf("  ScanCount: %d\n", c.ScanCount))
	sb.WriteString(fmt.Sprintf("  LogLevel: %s\n", c.LogLevel))
	return sb.String()
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid)"
	}
	return u.Redacted()
}
