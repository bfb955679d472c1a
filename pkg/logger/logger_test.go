package logger

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorHandlerOutput(t *testing.T) {
	var buf strings.Builder
	log := slog.New(NewColorHandler(&buf, slog.LevelInfo))

	log.Debug("hidden")
	log.Info("visible", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestColorHandlerGroups(t *testing.T) {
	var buf strings.Builder
	log := slog.New(NewColorHandler(&buf, slog.LevelInfo))

	log.WithGroup("req").With("id", "42").Info("handled")

	if !strings.Contains(buf.String(), "req.id=42") {
		t.Errorf("group prefix missing: %q", buf.String())
	}
}

func TestNewHandlerFormat(t *testing.T) {
	var buf strings.Builder
	log := slog.New(NewHandler(&buf, slog.LevelInfo, "json"))
	log.Info("structured", "key", "value")

	out := buf.String()
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"msg":"structured"`) {
		t.Errorf("expected JSON output, got %q", out)
	}

	if _, ok := NewHandler(&buf, slog.LevelInfo, "text").(*ColorHandler); !ok {
		t.Error("text format should select the color handler")
	}
	if _, ok := NewHandler(&buf, slog.LevelInfo, "").(*ColorHandler); !ok {
		t.Error("empty format should select the color handler")
	}
}

func TestColorHandlerEnabled(t *testing.T) {
	h := NewColorHandler(&strings.Builder{}, slog.LevelWarn)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
