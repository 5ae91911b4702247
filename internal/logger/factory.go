package logger

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables that override a LoggerConfig.
const (
	EnvLevel       = "XRM_LOG_LEVEL"
	EnvFormat      = "XRM_LOG_FORMAT"
	EnvSampling    = "XRM_LOG_SAMPLING"
	EnvDevelopment = "XRM_LOG_DEVELOPMENT"
	EnvFile        = "XRM_LOG_FILE"
	EnvMaxSizeMB   = "XRM_LOG_MAX_SIZE_MB"
)

// NewWithComponent builds a logger from cfg (after env overrides) with a
// component field pre-set.
func NewWithComponent(cfg LoggerConfig, component string) (Logger, error) {
	l, err := NewZapLogger(ApplyEnv(cfg))
	if err != nil {
		return nil, err
	}
	return l.With(Field{Key: "component", Value: component}), nil
}

// ApplyEnv overrides cfg with any XRM_LOG_* variables that are set.
func ApplyEnv(cfg LoggerConfig) LoggerConfig {
	if level := os.Getenv(EnvLevel); level != "" {
		cfg.Level = level
	}

	if format := os.Getenv(EnvFormat); format != "" {
		cfg.Format = format
	}

	if sampling := os.Getenv(EnvSampling); sampling != "" {
		cfg.EnableSampling = strings.ToLower(sampling) == "true"
	}

	if dev := os.Getenv(EnvDevelopment); dev != "" {
		cfg.Development = strings.ToLower(dev) == "true"
	}

	if path := os.Getenv(EnvFile); path != "" {
		if cfg.File.Path == "" {
			cfg.File = DefaultFileConfig(path)
		} else {
			cfg.File.Path = path
		}
	}

	if size := os.Getenv(EnvMaxSizeMB); size != "" {
		if val, err := strconv.Atoi(size); err == nil {
			cfg.File.MaxSizeMB = val
		}
	}

	return cfg
}
