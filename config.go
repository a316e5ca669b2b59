package approvals

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Store vendor names.
const (
	StoreVendorMemory = "memory"
	StoreVendorFs     = "fs"
)

// Notifier sink names.
const (
	SinkLog     = "log"
	SinkQueue   = "queue"
	SinkWebhook = "webhook"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from JSON or YAML. The zero-value is useful – all
// nested fields inherit their package defaults.
type Config struct {
	Store    StoreConfig    `json:"store" yaml:"store"`
	Sweeper  SweeperConfig  `json:"sweeper" yaml:"sweeper"`
	Notifier NotifierConfig `json:"notifier" yaml:"notifier"`
}

// StoreConfig selects and parameterises the request store backend.
type StoreConfig struct {
	Vendor  string `json:"vendor" yaml:"vendor"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// SweeperConfig parameterises the timeout sweeper.
type SweeperConfig struct {
	// Interval is a time.ParseDuration value, e.g. "30s".
	Interval string `json:"interval" yaml:"interval"`
}

// NotifierConfig selects the notification sinks; multiple sinks fan out.
type NotifierConfig struct {
	Sinks      []string `json:"sinks" yaml:"sinks"`
	WebhookURL string   `json:"webhookURL,omitempty" yaml:"webhookURL,omitempty"`
}

// DefaultConfig returns a Config with the package defaults: in-memory
// store, 30s sweep cadence, log-line notifications.
func DefaultConfig() *Config {
	return &Config{
		Store:    StoreConfig{Vendor: StoreVendorMemory},
		Sweeper:  SweeperConfig{Interval: "30s"},
		Notifier: NotifierConfig{Sinks: []string{SinkLog}},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Store.Vendor {
	case "", StoreVendorMemory:
	case StoreVendorFs:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.baseURL is required for the %s vendor", StoreVendorFs)
		}
	default:
		return fmt.Errorf("unsupported store vendor: %s", c.Store.Vendor)
	}
	if _, err := c.Sweeper.interval(); err != nil {
		return err
	}
	for _, sink := range c.Notifier.Sinks {
		switch sink {
		case SinkLog, SinkQueue:
		case SinkWebhook:
			if c.Notifier.WebhookURL == "" {
				return fmt.Errorf("notifier.webhookURL is required for the %s sink", SinkWebhook)
			}
		default:
			return fmt.Errorf("unsupported notifier sink: %s", sink)
		}
	}
	return nil
}

// interval parses the sweep cadence, falling back to the default when
// unset.
func (c *SweeperConfig) interval() (time.Duration, error) {
	if c.Interval == "" {
		return 30 * time.Second, nil
	}
	interval, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid sweeper.interval %q: %w", c.Interval, err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("sweeper.interval must be > 0, got %s", c.Interval)
	}
	return interval, nil
}

// LoadConfig reads and validates a YAML configuration from the supplied
// URL (a local path or any afs-supported scheme).
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
