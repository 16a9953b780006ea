package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetupParsesLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		if logger := Setup(level); logger == nil {
			t.Errorf("Setup(%q) returned nil logger", level)
		}
	}
}

func TestSetupFallsBackOnUnknownLevel(t *testing.T) {
	logger := Setup("verbose")
	if logger == nil {
		t.Fatal("Setup returned nil logger for unknown level")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected fallback logger to log at info level")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected fallback logger to suppress debug level")
	}
}

func TestContextRoundTrip(t *testing.T) {
	base := slog.Default()
	ctx := WithLogger(context.Background(), base)

	if got := FromContext(ctx); got != base {
		t.Error("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Error("FromContext on an empty context should return nil")
	}

	fallback := slog.Default().With("component", "test")
	if got := FromContextOrDefault(context.Background(), fallback); got != fallback {
		t.Error("FromContextOrDefault did not use the fallback")
	}
	if got := FromContextOrDefault(ctx, fallback); got != base {
		t.Error("FromContextOrDefault ignored the stored logger")
	}
}
