package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/civicdesk/civicdesk/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  level,
		Format: format,
		Output: NewOutput(&buf),
	})
	return logger, &buf
}

func TestLogger_JSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.Info("token stored", "key", "auth_token")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "token stored" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["key"] != "auth_token" {
		t.Errorf("unexpected key attribute: %v", entry["key"])
	}
}

func TestLogger_TextFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.Warn("store read failed", "op", "get")

	out := buf.String()
	if !strings.Contains(out, "store read failed") || !strings.Contains(out, "op=get") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info suppressed at WARN level, got: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("expected warn entry, got: %s", out)
	}
}

func TestLogger_WithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	err := errors.New(errors.ErrCodeStoreWrite, "write failed").
		WithSuggestion("check disk permissions")
	logger.WithError(err).Info("degraded")

	var entry map[string]any
	if uerr := json.Unmarshal(buf.Bytes(), &entry); uerr != nil {
		t.Fatalf("unmarshal: %v", uerr)
	}
	if entry["error_code"] != "STORE-001" {
		t.Errorf("expected error_code STORE-001, got %v", entry["error_code"])
	}
}

func TestLogger_Enabled(t *testing.T) {
	logger, _ := newBufferLogger(LevelInfo, FormatText)

	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at INFO level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at INFO level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultLogger(t *testing.T) {
	logger, _ := newBufferLogger(LevelDebug, FormatText)
	SetDefaultLogger(logger)

	if DefaultLogger() != logger {
		t.Error("expected configured default logger")
	}
}
