package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoggerWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	t.Cleanup(restore)

	Error("upload.failed", map[string]any{
		"filename": "abc.pdf",
		"error":    errors.New("boom"),
	})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if payload["msg"] != "upload.failed" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "error" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["error"] != "boom" {
		t.Fatalf("expected error to be stringified, got %v", payload["error"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}

func TestProductionLoggerDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("production", zapcore.AddSync(&buf))
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be suppressed, got %q", buf.String())
	}
}

func TestDevelopmentLoggerWritesJSONDebug(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("dev", zapcore.AddSync(&buf))
	l.Debug("visible")

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("expected JSON debug line, got %q: %v", buf.String(), err)
	}
	if payload["level"] != "debug" || payload["msg"] != "visible" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}
