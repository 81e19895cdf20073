package insulator

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLoggerObservesTransition(t *testing.T) {
	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	b := NewString(strings.Repeat("x", InlineSize))
	b.AppendString("y")

	if !strings.Contains(out.String(), "transitioned to heap storage") {
		t.Errorf("transition event not logged, got %q", out.String())
	}
}

func TestSetLoggerObservesLayoutFailure(t *testing.T) {
	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	block := make([]byte, RawSize)
	block[0] = InlineSize + 1
	if _, err := FromRaw(block); err == nil {
		t.Fatal("expected layout error")
	}

	if !strings.Contains(out.String(), "raw layout validation failed") {
		t.Errorf("validation event not logged, got %q", out.String())
	}
}

func TestSetLoggerNilDisables(t *testing.T) {
	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	SetLogger(nil)

	b := NewString(strings.Repeat("x", InlineSize))
	b.AppendString("y")

	if out.Len() != 0 {
		t.Errorf("events emitted after SetLogger(nil): %q", out.String())
	}
}
