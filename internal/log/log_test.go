package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBuildFormats(t *testing.T) {
	var text bytes.Buffer
	build(&text, "info", false).Info("hello", "k", "v")
	if !strings.Contains(text.String(), "k=v") {
		t.Errorf("Expected text output, got %q", text.String())
	}

	var js bytes.Buffer
	build(&js, "info", true).Info("hello", "k", "v")
	if !strings.Contains(js.String(), `"k":"v"`) {
		t.Errorf("Expected JSON output, got %q", js.String())
	}
}

func TestBuildRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "warn", false)
	l.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Error("Expected warn message to be written")
	}
}
