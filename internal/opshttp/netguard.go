package opshttp

import (
	"net"
	"net/http"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
)

// requireNonPublicNetwork rejects requests from public source addresses.
// The admin port carries pprof and metrics and must only be reachable
// from loopback, RFC1918, or link-local peers.
func requireNonPublicNetwork(L log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			L.Warn(r.Context(), "ops request with unparseable remote addr", "remote_addr", r.RemoteAddr)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		ip := net.ParseIP(host)
		if ip == nil || !(ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()) {
			L.Warn(r.Context(), "ops request from public address denied", "remote_addr", r.RemoteAddr)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
