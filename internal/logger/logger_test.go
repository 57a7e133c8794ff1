package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger_ValidInputs(t *testing.T) {
	cases := []struct {
		level  string
		format string
	}{
		{"info", "json"},
		{"debug", "text"},
		{"warn", "json"},
		{"error", "text"},
		{"INFO", "JSON"},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		l, err := New(c.level, c.format, &buf)
		if err != nil {
			t.Errorf("expected no error for level=%q format=%q, got %v", c.level, c.format, err)
		}
		if l == nil {
			t.Errorf("expected logger for level=%q format=%q, got nil", c.level, c.format)
		}
	}
}

func TestNewLogger_EmptyStrings(t *testing.T) {
	var buf bytes.Buffer
	_, err := New("", "json", &buf)
	if err == nil {
		t.Error("expected error for empty logLevel, got nil")
	}
	_, err = New("info", "", &buf)
	if err == nil {
		t.Error("expected error for empty logFormat, got nil")
	}
	_, err = New("", "", &buf)
	if err == nil {
		t.Error("expected error for both logLevel and logFormat empty, got nil")
	}
}

func TestNewLogger_InvalidValues(t *testing.T) {
	var buf bytes.Buffer
	_, err := New("foo", "json", &buf)
	if err == nil {
		t.Error("expected error for invalid logLevel, got nil")
	}
	_, err = New("info", "bar", &buf)
	if err == nil {
		t.Error("expected error for invalid logFormat, got nil")
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", "json", &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("hidden")
	l.Info("server started", "port", 8000)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "server started" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp key missing")
	}
	if _, ok := entry["time"]; ok {
		t.Error("time key should have been renamed")
	}
	if entry["port"] != float64(8000) {
		t.Errorf("port = %v", entry["port"])
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l == nil {
		t.Fatal("Discard() returned nil")
	}
	l.Error("dropped")
}
