package xerrors

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNew_CarriesStack(t *testing.T) {
	err := New("boom")
	if err == nil {
		t.Fatal("New returned nil")
	}
	hs, ok := err.(interface{ StackPCs() []uintptr })
	if !ok {
		t.Fatal("New error has no StackPCs")
	}
	if len(hs.StackPCs()) == 0 {
		t.Fatal("New error stack is empty")
	}
}

func TestWrap_NilPassthrough(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Fatal("Wrapf(nil) should be nil")
	}
	if WithStack(nil) != nil {
		t.Fatal("WithStack(nil) should be nil")
	}
	if EnsureTrace(nil) != nil {
		t.Fatal("EnsureTrace(nil) should be nil")
	}
}

func TestWrap_MessageAndUnwrap(t *testing.T) {
	base := errors.New("base failure")
	err := Wrap(base, "fetch file")

	if got := err.Error(); got != "fetch file: base failure" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(err, base) {
		t.Fatal("wrapped error lost its cause")
	}
}

func TestWrapf_Formats(t *testing.T) {
	err := Wrapf(io.EOF, "read %s page %d", "posts", 2)
	if !strings.HasPrefix(err.Error(), "read posts page 2: ") {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !errors.Is(err, io.EOF) {
		t.Fatal("wrapped error lost its cause")
	}
}

func TestWrap_CarriesPC(t *testing.T) {
	err := Wrap(errors.New("x"), "y")
	hp, ok := err.(interface{ PC() uintptr })
	if !ok {
		t.Fatal("wrap error has no PC")
	}
	if hp.PC() == 0 {
		t.Fatal("wrap PC is zero")
	}
}

func TestEnsureTrace_Idempotent(t *testing.T) {
	err := New("already stacked")
	again := EnsureTrace(err)
	if again != err {
		t.Fatal("EnsureTrace re-wrapped an error that already had a stack")
	}
}

func TestEnsureTrace_AddsStack(t *testing.T) {
	plain := errors.New("plain")
	err := EnsureTrace(plain)
	if err == plain {
		t.Fatal("EnsureTrace did not wrap a stackless error")
	}
	if !errors.Is(err, plain) {
		t.Fatal("EnsureTrace lost the cause")
	}
}
