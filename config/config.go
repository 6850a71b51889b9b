// Package config loads the service configuration from an optional .env
// file, an optional TOML file and environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"liquidfilters/constants"
	"liquidfilters/filters"
	"liquidfilters/i18n"
	"liquidfilters/middleware"
)

// Environment variables read by Load.
const (
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvMode            = "FILTERS_ENV"
	EnvLocale          = "FILTERS_LOCALE"
	EnvTimezone        = "FILTERS_TIMEZONE"
	EnvIntegerDivision = "FILTERS_INTEGER_DIVISION"
	EnvRateLimit       = "FILTERS_RATE_LIMIT"
	EnvTrustedProxies  = "FILTERS_TRUSTED_PROXIES"
	EnvConfigFile      = "FILTERS_CONFIG"
)

// Config holds the service settings.
type Config struct {
	Port            string `toml:"port"`
	LogLevel        string `toml:"log_level"`
	Env             string `toml:"env"`
	Locale          string `toml:"locale"`
	Timezone        string `toml:"timezone"`
	IntegerDivision bool   `toml:"integer_division"`
	// RateLimit is the burst of filter requests allowed per client; 0
	// disables rate limiting.
	RateLimit int `toml:"rate_limit"`
	// TrustedProxies lists the reverse proxies (CIDR prefixes or addresses)
	// whose X-Forwarded-For header identifies the client.
	TrustedProxies []string `toml:"trusted_proxies"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:      constants.DefaultPort,
		LogLevel:  constants.DefaultLogLevel,
		Env:       "development",
		Locale:    constants.DefaultLocale,
		Timezone:  constants.DefaultTimezone,
		RateLimit: constants.DefaultRateLimit,
	}
}

// Load builds the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the settings present in a TOML file.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvPort, &c.Port)
	str(EnvLogLevel, &c.LogLevel)
	str(EnvMode, &c.Env)
	str(EnvLocale, &c.Locale)
	str(EnvTimezone, &c.Timezone)

	if v, ok := lookup(EnvIntegerDivision); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvIntegerDivision, err)
		}
		c.IntegerDivision = b
	}
	if v, ok := lookup(EnvRateLimit); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRateLimit, err)
		}
		c.RateLimit = n
	}
	if v, ok := lookup(EnvTrustedProxies); ok && strings.TrimSpace(v) != "" {
		c.TrustedProxies = strings.Split(v, ",")
	}
	return nil
}

// Validate checks that the locale and time zone can be used by filters.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit)
	}
	if _, err := i18n.ParseTag(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if _, err := c.ProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// ProxyPrefixes parses TrustedProxies.
func (c *Config) ProxyPrefixes() ([]netip.Prefix, error) {
	return middleware.ParseTrustedProxies(c.TrustedProxies)
}

// IsProduction checks if the service runs in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

// FilterContext returns the filter context described by the configuration.
func (c *Config) FilterContext() (*filters.Context, error) {
	tag, err := i18n.ParseTag(c.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	ctx := filters.DefaultContext()
	ctx.Locale = tag
	ctx.Location = loc
	ctx.IntegerDivision = c.IntegerDivision
	return ctx, nil
}
