package httpmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func clientIPFor(t *testing.T, remoteAddr, xff string, hops int) string {
	t.Helper()
	var got string
	h := ClientIPWithOptions(ClientIPOptions{TrustedHops: hops})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = ClientIPFromContext(r.Context())
		}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = remoteAddr
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestClientIP_NoProxy(t *testing.T) {
	got := clientIPFor(t, "203.0.113.9:4242", "", 0)
	if got != "203.0.113.9" {
		t.Fatalf("client ip = %q", got)
	}
}

func TestClientIP_PublicPeerIgnoresXFF(t *testing.T) {
	// public peers cannot vouch for forwarded headers
	got := clientIPFor(t, "203.0.113.9:4242", "10.0.0.1", 1)
	if got != "203.0.113.9" {
		t.Fatalf("client ip = %q, want peer address", got)
	}
}

func TestClientIP_PrivatePeerSingleHop(t *testing.T) {
	got := clientIPFor(t, "10.0.0.5:1234", "198.51.100.7", 1)
	if got != "198.51.100.7" {
		t.Fatalf("client ip = %q, want XFF entry", got)
	}
}

func TestClientIP_TwoHops(t *testing.T) {
	got := clientIPFor(t, "10.0.0.5:1234", "198.51.100.7, 192.0.2.80", 2)
	if got != "198.51.100.7" {
		t.Fatalf("client ip = %q, want second-from-end", got)
	}
}

func TestClientIP_FewerEntriesThanHops_FailsClosed(t *testing.T) {
	got := clientIPFor(t, "10.0.0.5:1234", "198.51.100.7", 3)
	if got != "10.0.0.5" {
		t.Fatalf("client ip = %q, want peer address", got)
	}
}

func TestClientIP_MalformedXFFEntry(t *testing.T) {
	got := clientIPFor(t, "10.0.0.5:1234", "not-an-ip", 1)
	if got != "10.0.0.5" {
		t.Fatalf("client ip = %q, want peer address", got)
	}
}
