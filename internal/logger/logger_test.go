package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_BasicLogging(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger := &ZapLogger{
		zap: zap.New(core),
	}

	logger.Debug("debug message", Field{Key: "level", Value: "debug"})
	logger.Info("info message", Field{Key: "level", Value: "info"})
	logger.Warn("warn message", Field{Key: "level", Value: "warn"})
	logger.Error("error message", Field{Key: "level", Value: "error"})

	logs := recorded.All()
	if len(logs) != 4 {
		t.Fatalf("Expected 4 logs, got %d", len(logs))
	}

	expectedLevels := []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
	}

	for i, log := range logs {
		if log.Level != expectedLevels[i] {
			t.Errorf("Log %d: expected level %v, got %v", i, expectedLevels[i], log.Level)
		}
	}
}

func TestZapLogger_StructuredFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := &ZapLogger{
		zap: zap.New(core),
	}

	logger.Info("device instantiated",
		F("name", "body-3-0"),
		F("submodels", 4),
		F("device_id", uint32(3)),
		F("bytes", uint64(456)),
		F("ratio", 0.5),
		F("cached", true),
		F("took", time.Second),
		Err(errors.New("boom")),
	)

	logs := recorded.All()
	if len(logs) != 1 {
		t.Fatalf("Expected 1 log, got %d", len(logs))
	}

	contextMap := logs[0].ContextMap()
	if contextMap["name"] != "body-3-0" {
		t.Errorf("Expected name='body-3-0', got '%v'", contextMap["name"])
	}
	if contextMap["submodels"] != int64(4) {
		t.Errorf("Expected submodels=4, got %v", contextMap["submodels"])
	}
	if contextMap["device_id"] != uint32(3) {
		t.Errorf("Expected device_id=3, got %v", contextMap["device_id"])
	}
	if contextMap["cached"] != true {
		t.Errorf("Expected cached=true, got %v", contextMap["cached"])
	}
	if contextMap["error"] != "boom" {
		t.Errorf("Expected error='boom', got %v", contextMap["error"])
	}
}

func TestZapLogger_With(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := &ZapLogger{
		zap: zap.New(core),
	}

	childLogger := logger.With(
		Field{Key: "component", Value: "tracker_models"},
		Field{Key: "device_id", Value: uint64(123)},
	)
	childLogger.Info("test message")

	logs := recorded.All()
	if len(logs) != 1 {
		t.Fatalf("Expected 1 log, got %d", len(logs))
	}

	contextMap := logs[0].ContextMap()
	if contextMap["component"] != "tracker_models" {
		t.Errorf("Expected component='tracker_models', got '%v'", contextMap["component"])
	}
	if contextMap["device_id"] != uint64(123) {
		t.Errorf("Expected device_id=123, got %v", contextMap["device_id"])
	}
}

func TestNewZapLogger_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xrmodels.log")
	cfg := DefaultConfig()
	cfg.EnableSampling = false
	cfg.File = DefaultFileConfig(path)

	logger, err := NewZapLogger(cfg)
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}
	logger.Info("written to file", F("device_id", 7))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log file to contain the entry")
	}
}

func TestContext_WithLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := &ZapLogger{
		zap: zap.New(core),
	}

	ctx := WithLogger(context.Background(), logger.With(F("run_id", "r1")))
	FromContext(ctx, NewNop()).Info("test message")

	logs := recorded.All()
	if len(logs) != 1 {
		t.Fatalf("Expected 1 log, got %d", len(logs))
	}
	if logs[0].ContextMap()["run_id"] != "r1" {
		t.Errorf("Expected run_id='r1', got %v", logs[0].ContextMap()["run_id"])
	}
}

func TestContext_Fallback(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	fallback := &ZapLogger{
		zap: zap.New(core),
	}

	FromContext(context.Background(), fallback).Info("test message")
	if got := len(recorded.All()); got != 1 {
		t.Errorf("Expected fallback to receive 1 log, got %d", got)
	}

	FromContext(context.Background(), nil).Info("test message") // must not panic
}

func TestLoggerConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("Expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Expected default format 'json', got '%s'", cfg.Format)
	}
	if !cfg.EnableSampling {
		t.Error("Expected sampling enabled by default")
	}
	if cfg.File.Path != "" {
		t.Errorf("Expected no log file by default, got %q", cfg.File.Path)
	}
}

func TestLoggerConfig_Development(t *testing.T) {
	cfg := DevelopmentConfig()

	if cfg.Level != "debug" {
		t.Errorf("Expected development level 'debug', got '%s'", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("Expected development format 'console', got '%s'", cfg.Format)
	}
	if cfg.EnableSampling {
		t.Error("Expected sampling disabled in development")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvFormat, "console")
	t.Setenv(EnvSampling, "false")
	t.Setenv(EnvFile, "/tmp/xrm.log")
	t.Setenv(EnvMaxSizeMB, "5")

	cfg := ApplyEnv(DefaultConfig())
	if cfg.Level != "warn" || cfg.Format != "console" || cfg.EnableSampling {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.File.Path != "/tmp/xrm.log" || cfg.File.MaxSizeMB != 5 {
		t.Errorf("file overrides not applied: %+v", cfg.File)
	}
}

func TestConvertFields_AllTypes(t *testing.T) {
	fields := []Field{
		{Key: "string", Value: "test"},
		{Key: "int", Value: 42},
		{Key: "int64", Value: int64(123)},
		{Key: "uint32", Value: uint32(9)},
		{Key: "uint64", Value: uint64(456)},
		{Key: "float64", Value: 3.14},
		{Key: "bool", Value: true},
		{Key: "duration", Value: time.Second},
		{Key: "other", Value: []string{"a"}},
	}

	zapFields := convertFields(fields)
	if len(zapFields) != len(fields) {
		t.Fatalf("Expected %d zap fields, got %d", len(fields), len(zapFields))
	}
	for i, zf := range zapFields {
		if zf.Key != fields[i].Key {
			t.Errorf("Field %d: expected key '%s', got '%s'", i, fields[i].Key, zf.Key)
		}
	}
}
