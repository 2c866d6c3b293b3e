package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvFormat, "text")
	t.Setenv(EnvLevel, "debug")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Format != "text" {
		t.Fatalf("Format=%q", cfg.Format)
	}
	if cfg.Level != slog.LevelDebug {
		t.Fatalf("Level=%v", cfg.Level)
	}
}

func TestLoadConfigFromEnvRejectsInvalidValues(t *testing.T) {
	t.Setenv(EnvFormat, "xml")
	t.Setenv(EnvLevel, "info")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Fatal("invalid LOG_FORMAT should fail")
	}

	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvLevel, "loud")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Fatal("invalid LOG_LEVEL should fail")
	}
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	t.Setenv(EnvFormat, "")
	t.Setenv(EnvLevel, "")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Format != DefaultConfig().Format || cfg.Level != DefaultConfig().Level {
		t.Fatalf("cfg=%+v want defaults", cfg)
	}
}

func TestNewLoggerAttachesAppAndCommand(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "json", Level: slog.LevelInfo}, &buf, "adbridge serve")
	logger.Info("hello", "key", "value")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("json.Unmarshal: %v (raw %q)", err, buf.String())
	}
	if payload["app"] != "adbridge" {
		t.Fatalf("app=%v", payload["app"])
	}
	if payload["command"] != "adbridge serve" {
		t.Fatalf("command=%v", payload["command"])
	}
	if payload["key"] != "value" {
		t.Fatalf("key=%v", payload["key"])
	}
}

func TestNewLoggerLevelFiltersDebug(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "text", Level: slog.LevelInfo}, &buf, "")
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line emitted at info level: %q", buf.String())
	}
	logger.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("info line missing: %q", buf.String())
	}
}
