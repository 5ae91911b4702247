package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Load loads configuration with priority: defaults < file. An empty path
// returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !(c.Tick.TPS > 0) {
		return fmt.Errorf("%w: tick.tps must be positive, got %v", ErrInvalidConfig, c.Tick.TPS)
	}
	if c.Tick.Interval() <= 0 {
		return fmt.Errorf("%w: tick.tps %v is too high for a 1ns tick interval", ErrInvalidConfig, c.Tick.TPS)
	}
	if c.Tick.MaxTicks < 0 {
		return fmt.Errorf("%w: tick.max_ticks must not be negative, got %d", ErrInvalidConfig, c.Tick.MaxTicks)
	}
	if c.Assets.Workers <= 0 {
		return fmt.Errorf("%w: assets.workers must be positive, got %d", ErrInvalidConfig, c.Assets.Workers)
	}
	switch c.Models.FailurePolicy {
	case PolicyMark, PolicyRetry:
	default:
		return fmt.Errorf("%w: models.failure_policy must be %q or %q, got %q",
			ErrInvalidConfig, PolicyMark, PolicyRetry, c.Models.FailurePolicy)
	}
	if c.Material.Roughness < 0 || c.Material.Roughness > 1 {
		return fmt.Errorf("%w: material.roughness must be within [0, 1], got %v", ErrInvalidConfig, c.Material.Roughness)
	}
	if c.Material.Metallic < 0 || c.Material.Metallic > 1 {
		return fmt.Errorf("%w: material.metallic must be within [0, 1], got %v", ErrInvalidConfig, c.Material.Metallic)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format must be json or console, got %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
