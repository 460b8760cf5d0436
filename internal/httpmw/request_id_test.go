package httpmw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	h := RequestID("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatal("no request id in context")
	}
	if len(seen) != 32 {
		t.Fatalf("request id %q, want 32 hex chars", seen)
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("response header %q != context id %q", got, seen)
	}
}

func TestRequestID_PropagatesExisting(t *testing.T) {
	var seen string
	h := RequestID("X-Request-Id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-Id", "upstream-id-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "upstream-id-123" {
		t.Fatalf("context id = %q, want upstream-id-123", seen)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "upstream-id-123" {
		t.Fatalf("response header = %q", got)
	}
}

func TestRequestID_ReplacesMalformed(t *testing.T) {
	malformed := []string{
		"has spaces here",
		"semi;colon",
		"new\nline",
		strings.Repeat("a", 65),
	}

	for _, bad := range malformed {
		var seen string
		h := RequestID("X-Request-Id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-Id", bad)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if seen == bad {
			t.Fatalf("malformed id %q propagated", bad)
		}
		if len(seen) != 32 {
			t.Fatalf("replacement id %q, want 32 hex chars", seen)
		}
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	if got := RequestIDFromContext(httptest.NewRequest("GET", "/", nil).Context()); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
