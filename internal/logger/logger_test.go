package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer

	config := Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "test-engine",
		Version:     "1.0.0",
		Environment: "test",
		AddSource:   false,
	}

	InitLoggerWithWriter(config, &buf)

	Info("capacity report built", "products", 12, "producible", 9)

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if logEntry["service"] != "test-engine" {
		t.Errorf("Expected service=test-engine, got %v", logEntry["service"])
	}
	if logEntry["version"] != "1.0.0" {
		t.Errorf("Expected version=1.0.0, got %v", logEntry["version"])
	}
	if logEntry["environment"] != "test" {
		t.Errorf("Expected environment=test, got %v", logEntry["environment"])
	}
	if logEntry["msg"] != "capacity report built" {
		t.Errorf("Expected msg='capacity report built', got %v", logEntry["msg"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level=INFO, got %v", logEntry["level"])
	}
	if logEntry["products"] != float64(12) {
		t.Errorf("Expected products=12, got %v", logEntry["products"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "warn", Format: "text"}, &buf)

	Info("hidden")
	Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestRequestIDContext(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "info", Format: "json"}, &buf)

	ctx := WithRequestID(context.Background(), "test-req-123")

	if requestID := GetRequestID(ctx); requestID != "test-req-123" {
		t.Errorf("Expected request_id=test-req-123, got %s", requestID)
	}

	FromContext(ctx).Info("with id")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if logEntry["request_id"] != "test-req-123" {
		t.Errorf("Expected request_id attribute, got %v", logEntry["request_id"])
	}

	if GetRequestID(context.Background()) != "" {
		t.Error("Expected empty request id on bare context")
	}
}

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	if a == "" || a == b {
		t.Errorf("Expected distinct non-empty ids, got %q and %q", a, b)
	}
}

func TestForEnvironment(t *testing.T) {
	tests := []struct {
		env       string
		wantLevel slog.Level
		wantJSON  bool
		addSource bool
		wantEnv   string
	}{
		{EnvironmentProduction, slog.LevelInfo, true, false, EnvironmentProduction},
		{EnvironmentStaging, slog.LevelInfo, true, false, EnvironmentStaging},
		{EnvironmentDev, slog.LevelDebug, false, true, EnvironmentDev},
		{EnvironmentTest, slog.LevelWarn, false, false, EnvironmentTest},
		{"", slog.LevelInfo, false, false, EnvironmentDev},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := ForEnvironment(tt.env)
			assert.Equal(t, tt.wantLevel, cfg.LogLevel())
			assert.Equal(t, tt.wantJSON, cfg.IsJSON())
			assert.Equal(t, tt.addSource, cfg.AddSource)
			assert.Equal(t, tt.wantEnv, cfg.Environment)
			assert.Equal(t, DefaultServiceName, cfg.ServiceName)
		})
	}
}

func TestLogLevelParsing(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"loud":    slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, Config{Level: in}.LogLevel(), "level %q", in)
	}
}

func TestSecretsAreRedacted(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "info", Format: "json"}, &buf)

	Info("connecting", "db_password", "hunter2", "API_KEY", "abc", "db_host", "localhost")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, `"abc"`)
	assert.Contains(t, out, RedactedValue)
	assert.Contains(t, out, "localhost")
}
