package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newPlain(buf *bytes.Buffer, level slog.Level) Logger {
	return New(NewPrettyHandler(buf, PrettyOptions{Level: level, NoColor: true}))
}

// stripTime drops the leading HH:MM:SS stamp.
func stripTime(t *testing.T, line string) string {
	t.Helper()
	stamp, rest, ok := strings.Cut(line, " ")
	if !ok || len(stamp) != len(time.TimeOnly) {
		t.Fatalf("line %q does not start with a time stamp", line)
	}
	return rest
}

func TestPrettyEngineReady(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newPlain(&buf, slog.LevelInfo).Info("engine ready", "vocab", 27, "elapsed", 1500*time.Millisecond)

	got := stripTime(t, buf.String())
	if want := "INFO  engine ready vocab=27 elapsed=1.5s\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettySkippedName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelInfo).With("seed", int64(42))
	log.Warn("skipping failed name", "index", 3, "error", errors.New("inference failed: step 2"))

	got := stripTime(t, buf.String())
	want := `WARN  skipping failed name seed=42 index=3 error="inference failed: step 2"` + "\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyValueFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []any
		want string
	}{
		{"plain string", []any{"backend", "toy"}, "backend=toy"},
		{"path with space", []any{"path", "/models/jp cities.onnx"}, `path="/models/jp cities.onnx"`},
		{"empty string", []any{"model", ""}, `model=""`},
		{"duration rounded", []any{"elapsed", 1234567 * time.Nanosecond}, "elapsed=1.235ms"},
		{"float", []any{"temperature", 0.75}, "temperature=0.75"},
		{"bool", []any{"raw", true}, "raw=true"},
		{"group", []any{slog.Group("usage", "requested", 10, "returned", 9)}, "usage.requested=10 usage.returned=9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			newPlain(&buf, slog.LevelInfo).Info("m", tt.args...)
			got := strings.TrimSuffix(stripTime(t, buf.String()), "\n")
			if want := "INFO  m " + tt.want; got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		})
	}
}

func TestPrettyLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newPlain(&buf, slog.LevelWarn)
	log.Debug("configured backend", "backend", "toy")
	log.Info("building toy model", "vocab", 27)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	log.Error("engine initialization failed", "error", errors.New("boom"))
	if !strings.Contains(buf.String(), "ERROR engine initialization failed error=boom") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrettyWithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, PrettyOptions{NoColor: true}).WithGroup("batch").WithAttrs([]slog.Attr{slog.Int64("seed", 7)})
	slog.New(h).Info("generated names", "count", 10)

	got := stripTime(t, buf.String())
	if want := "INFO  generated names batch.seed=7 batch.count=10\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(NewPrettyHandler(&buf, PrettyOptions{})).Info("engine ready", "vocab", 27)
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestNewWithFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := NewWithFormat(&buf, "json", "debug")
	if err != nil {
		t.Fatalf("NewWithFormat: %v", err)
	}
	log.Debug("generated names", "count", 3, "seed", 99)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if rec["msg"] != "generated names" || rec["seed"] != float64(99) || rec["level"] != "DEBUG" {
		t.Fatalf("unexpected record %v", rec)
	}

	for _, format := range []string{"", "pretty", "TEXT"} {
		if _, err := NewWithFormat(&buf, format, "info"); err != nil {
			t.Fatalf("NewWithFormat(%q): %v", format, err)
		}
	}
	if _, err := NewWithFormat(&buf, "xml", "info"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithContext(context.Background(), newPlain(&buf, slog.LevelInfo))
	FromContext(ctx).Info("starting server", "address", "127.0.0.1:8080")
	if !strings.Contains(buf.String(), "address=127.0.0.1:8080") {
		t.Fatalf("logger not taken from context: %q", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a fallback logger")
	}
}
