// Package config handles xrmodels configuration loading and validation.
package config

import (
	"time"

	"xrmodels/internal/logger"
	"xrmodels/internal/render"
)

// Failure policies for devices whose model can never be built.
const (
	PolicyMark  = "mark"
	PolicyRetry = "retry"
)

// Config holds all runtime settings.
type Config struct {
	Tick     TickConfig            `yaml:"tick"`
	Logging  logger.LoggerConfig   `yaml:"logging"`
	Assets   AssetsConfig          `yaml:"assets"`
	Models   ModelsConfig          `yaml:"models"`
	Material render.MaterialConfig `yaml:"material"`
	Backend  BackendConfig         `yaml:"backend"`
}

// TickConfig controls the simulation loop.
type TickConfig struct {
	TPS float64 `yaml:"tps"`
	// MaxTicks stops the loop after this many ticks. Zero runs until cancelled.
	MaxTicks int `yaml:"max_ticks"`
}

// Interval returns the duration of one tick.
func (t TickConfig) Interval() time.Duration {
	return time.Duration(float64(time.Second) / t.TPS)
}

// AssetsConfig sizes the asset resolution pool.
type AssetsConfig struct {
	Workers int `yaml:"workers"`
}

// ModelsConfig holds tracker model behaviour.
type ModelsConfig struct {
	FailurePolicy string `yaml:"failure_policy"`
}

// BackendConfig points at the simulated runtime's device manifest.
type BackendConfig struct {
	Manifest string `yaml:"manifest"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tick: TickConfig{
			TPS:      30,
			MaxTicks: 0,
		},
		Logging: logger.DefaultConfig(),
		Assets: AssetsConfig{
			Workers: 4,
		},
		Models: ModelsConfig{
			FailurePolicy: PolicyMark,
		},
		Material: render.DefaultMaterialConfig(),
		Backend: BackendConfig{
			Manifest: "configs/devices.yaml",
		},
	}
}
