package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNew_RenamesKeysAndAddsService(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Service: "promogate", Environment: "test", Level: "debug"})

	logger.Debug("hello", "category", "freebies")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON line: %v (%q)", err, buf.String())
	}
	if line["message"] != "hello" || line["severity"] != "DEBUG" {
		t.Fatalf("unexpected keys %v", line)
	}
	if line["service"] != "promogate" || line["env"] != "test" || line["category"] != "freebies" {
		t.Fatalf("unexpected attrs %v", line)
	}
	if _, ok := line["timestamp"]; !ok {
		t.Fatalf("expected timestamp key, got %v", line)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "warn"})

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
