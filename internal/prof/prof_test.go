package prof

import (
	"context"
	"strings"
	"testing"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
)

// Disabled path

func TestStart_Disabled_ReturnsStopFunc(t *testing.T) {
	stop, err := Start(context.Background(), Options{Enabled: false})
	if err != nil {
		t.Fatalf("Start disabled: %v", err)
	}
	if stop == nil {
		t.Fatal("stop func is nil")
	}
}

func TestStart_Disabled_StopIsNoop(t *testing.T) {
	stop, _ := Start(context.Background(), Options{Enabled: false})

	// Should not panic
	stop()
	stop() // safe to call multiple times
}

func TestStart_Disabled_IgnoresAllOptions(t *testing.T) {
	stop, err := Start(context.Background(), Options{
		Enabled:              false,
		AppName:              "",
		ServerAddress:        "",
		AuthToken:            "secret",
		TenantID:             "tenant",
		Tags:                 map[string]string{"k": "v"},
		ProfileMutexFraction: 999,
		BlockProfileRate:     999,
	})

	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	stop()
}

// Enabled - validation

func TestStart_Enabled_EmptyServerAddress_Errors(t *testing.T) {
	stop, err := Start(context.Background(), Options{
		Enabled:       true,
		ServerAddress: "",
		AppName:       "test",
	})

	if err == nil {
		t.Fatal("expected error for empty server address")
	}
	if !strings.Contains(err.Error(), "invalid server address") {
		t.Fatalf("error = %q, want 'invalid server address'", err.Error())
	}

	// Stop func should still be returned and safe to call
	if stop == nil {
		t.Fatal("stop func should be non-nil even on error")
	}
	stop()
}

func TestStart_Enabled_EmptyServerAddress_StopIdempotent(t *testing.T) {
	stop, _ := Start(context.Background(), Options{
		Enabled:       true,
		ServerAddress: "",
	})

	stop()
	stop()
	stop()
}

// Context with logger - ensures FromContext path works

func TestStart_Enabled_EmptyAddress_WithContextLogger(t *testing.T) {
	ctx := log.WithContext(context.Background(), log.Nop())

	stop, err := Start(ctx, Options{
		Enabled:       true,
		ServerAddress: "",
	})

	if err == nil {
		t.Fatal("expected error")
	}
	stop()
}
