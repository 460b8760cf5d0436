package httpmw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
)

// spyLogger captures Error calls for assertions.
type spyLogger struct {
	log.Logger
	mu     sync.Mutex
	errors []spyError
}

type spyError struct {
	msg string
	err error
}

func newSpyLogger() *spyLogger {
	return &spyLogger{Logger: log.Nop()}
}

func (s *spyLogger) With(kv ...any) log.Logger { return s }

func (s *spyLogger) Error(ctx context.Context, err error, msg string, kv ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, spyError{msg: msg, err: err})
}

func (s *spyLogger) lastError() (spyError, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errors) == 0 {
		return spyError{}, false
	}
	return s.errors[len(s.errors)-1], true
}

func TestRecover_NoPanic(t *testing.T) {
	spy := newSpyLogger()

	h := Recover(spy, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, ok := spy.lastError(); ok {
		t.Fatal("logged an error without a panic")
	}
}

func TestRecover_PanicServes500(t *testing.T) {
	spy := newSpyLogger()
	panics := 0

	h := Recover(spy, func() { panics++ })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if panics != 1 {
		t.Fatalf("onPanic called %d times, want 1", panics)
	}
	e, ok := spy.lastError()
	if !ok {
		t.Fatal("panic was not logged")
	}
	if e.msg != "panic in http handler" {
		t.Fatalf("log msg = %q", e.msg)
	}
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	h := Recover(newSpyLogger(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if recover() != http.ErrAbortHandler {
			t.Fatal("ErrAbortHandler was swallowed")
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	t.Fatal("expected panic")
}

func TestRecover_NilLogger(t *testing.T) {
	h := Recover(nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("no logger")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
