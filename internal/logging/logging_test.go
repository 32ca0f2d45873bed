package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return m
}

func TestRedactsSecretAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	logger.Info("generated", "password", "hunter2", "Operator_Token", "abc", "length", 16)

	m := decodeLine(t, &buf)
	if m["password"] != redacted {
		t.Errorf("password = %v, want %q", m["password"], redacted)
	}
	if m["Operator_Token"] != redacted {
		t.Errorf("Operator_Token = %v, want %q", m["Operator_Token"], redacted)
	}
	if m["length"] != float64(16) {
		t.Errorf("length = %v, want 16", m["length"])
	}
	if strings.Contains(buf.String(), "hunter2") {
		t.Error("secret value leaked into log output")
	}
}

func TestRedactsGroupsAndWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json").With("jwt_secret", "s3cr3t")

	logger.Info("nested", slog.Group("request", slog.String("password", "hunter2"), slog.Int("count", 2)))

	out := buf.String()
	if strings.Contains(out, "hunter2") || strings.Contains(out, "s3cr3t") {
		t.Errorf("secret value leaked into log output: %s", out)
	}
	m := decodeLine(t, &buf)
	req, ok := m["request"].(map[string]any)
	if !ok {
		t.Fatalf("request group missing: %s", out)
	}
	if req["count"] != float64(2) {
		t.Errorf("request.count = %v, want 2", req["count"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}

	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn record missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
