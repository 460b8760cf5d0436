package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{" INFO ", slog.LevelInfo, false},
		{"trace", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLevel(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func newTestLogger(t *testing.T, lvl slog.Level) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	lg, err := New(Options{
		App:        "test",
		Level:      lvl,
		JsonFormat: true,
		Writer:     &buf,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return lg, &buf
}

func lastLine(buf *bytes.Buffer) map[string]any {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var out map[string]any
	_ = json.Unmarshal([]byte(lines[len(lines)-1]), &out)
	return out
}

func TestInfo_EmitsAppAndMessage(t *testing.T) {
	lg, buf := newTestLogger(t, slog.LevelInfo)
	lg.Info(context.Background(), "hello", "k", "v")

	rec := lastLine(buf)
	if rec["msg"] != "hello" {
		t.Fatalf("msg = %v", rec["msg"])
	}
	if rec["app"] != "test" {
		t.Fatalf("app = %v", rec["app"])
	}
	if rec["k"] != "v" {
		t.Fatalf("k = %v", rec["k"])
	}
}

func TestDebug_SuppressedBelowLevel(t *testing.T) {
	lg, buf := newTestLogger(t, slog.LevelInfo)
	lg.Debug(context.Background(), "quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestError_IncludesChainAndStack(t *testing.T) {
	lg, buf := newTestLogger(t, slog.LevelInfo)
	base := errors.New("root cause")
	lg.Error(context.Background(), base, "it broke")

	rec := lastLine(buf)
	if rec["err"] != "root cause" {
		t.Fatalf("err = %v", rec["err"])
	}
	if _, ok := rec["stack"]; !ok {
		t.Fatal("error record missing stack")
	}
	if _, ok := rec["error_chain"]; !ok {
		t.Fatal("error record missing error_chain")
	}
}

func TestWith_AddsPersistentAttrs(t *testing.T) {
	lg, buf := newTestLogger(t, slog.LevelInfo)
	child := lg.With("component", "gitapi")
	child.Info(context.Background(), "ping")

	rec := lastLine(buf)
	if rec["component"] != "gitapi" {
		t.Fatalf("component = %v", rec["component"])
	}

	// parent is unchanged
	buf.Reset()
	lg.Info(context.Background(), "pong")
	rec = lastLine(buf)
	if _, ok := rec["component"]; ok {
		t.Fatal("With leaked attrs into the parent logger")
	}
}

func TestNop_DoesNothing(t *testing.T) {
	n := Nop()
	// must not panic, With returns a usable logger
	n.With("a", 1).Info(context.Background(), "x")
	n.Error(context.Background(), errors.New("e"), "y")
	if err := n.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestFromContext_Fallback(t *testing.T) {
	got := FromContext(context.Background())
	if got == nil {
		t.Fatal("FromContext returned nil")
	}
}

func TestFromContext_RoundTrip(t *testing.T) {
	lg, _ := newTestLogger(t, slog.LevelInfo)
	ctx := WithContext(context.Background(), lg)
	if FromContext(ctx) != lg {
		t.Fatal("FromContext did not return the stored logger")
	}
}
