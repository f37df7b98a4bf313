// Package config holds the client settings and their environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/marshallshelly/stockroom/pkg/client"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/views"
)

// Environment variables read by FromEnv.
const (
	EnvAPIURL         = "STOCKROOM_API_URL"
	EnvSessionFile    = "STOCKROOM_SESSION_FILE"
	EnvLowStock       = "STOCKROOM_LOW_STOCK_THRESHOLD"
	EnvPollInterval   = "STOCKROOM_POLL_INTERVAL"
	EnvRequestTimeout = "STOCKROOM_TIMEOUT"
	EnvPageSize       = "STOCKROOM_PAGE_SIZE"
)

// DefaultPollInterval is how often dashboard notifications refresh.
const DefaultPollInterval = 30 * time.Second

// DefaultRequestTimeout bounds a single backend request.
const DefaultRequestTimeout = 15 * time.Second

// Config represents client configuration.
type Config struct {
	APIURL            string
	SessionFile       string
	LowStockThreshold int
	PollInterval      time.Duration
	RequestTimeout    time.Duration
	PageSize          int
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:            client.DefaultBaseURL,
		SessionFile:       DefaultSessionFile(),
		LowStockThreshold: inventory.DefaultLowStockThreshold,
		PollInterval:      DefaultPollInterval,
		RequestTimeout:    DefaultRequestTimeout,
		PageSize:          views.DefaultPageSize,
	}
}

// DefaultSessionFile returns the session file in the user config directory,
// falling back to the working directory.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".stockroom-session.json"
	}
	return filepath.Join(dir, "stockroom", "session.json")
}

// Load returns the defaults with environment overrides applied.
func Load() (*Config, error) {
	cfg := Default()
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv applies overrides found through lookup.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	var errs []error

	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := lookup(EnvSessionFile); ok && v != "" {
		c.SessionFile = v
	}
	if v, ok := lookup(EnvLowStock); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLowStock, err))
		} else {
			c.LowStockThreshold = n
		}
	}
	if v, ok := lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvPageSize, err))
		} else {
			c.PageSize = n
		}
	}
	if v, ok := lookup(EnvPollInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvPollInterval, err))
		} else {
			c.PollInterval = d
		}
	}
	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvRequestTimeout, err))
		} else {
			c.RequestTimeout = d
		}
	}

	return errors.Join(errs...)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api url %q must be an absolute http(s) URL", c.APIURL))
	}
	if c.SessionFile == "" {
		errs = append(errs, errors.New("session file must not be empty"))
	}
	if c.LowStockThreshold < 1 {
		errs = append(errs, fmt.Errorf("low stock threshold must be positive, got %d", c.LowStockThreshold))
	}
	if c.PollInterval < time.Second {
		errs = append(errs, fmt.Errorf("poll interval must be at least 1s, got %s", c.PollInterval))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", c.PageSize))
	}

	return errors.Join(errs...)
}

// Thresholds returns the stock thresholds for the configured limit.
func (c *Config) Thresholds() inventory.Thresholds {
	return inventory.Thresholds{LowStock: c.LowStockThreshold}
}
