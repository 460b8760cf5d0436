package httpmw

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type clientIPKey struct{}

// ClientIPOptions configures client IP extraction behavior.
type ClientIPOptions struct {
	// TrustedHops is the number of trusted reverse proxies between the client
	// and this server. 0 = no proxies (X-Forwarded-For ignored), 1 = single
	// load balancer (rightmost XFF entry), 2 = CDN + LB, etc.
	TrustedHops int
}

// ClientIP extracts the client IP address from the request and stores it in
// the context using default options (TrustedHops=0).
func ClientIP(next http.Handler) http.Handler {
	return ClientIPWithOptions(ClientIPOptions{})(next)
}

// ClientIPWithOptions returns middleware that extracts the client IP using
// the given options.
func ClientIPWithOptions(opts ClientIPOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractRealClientAddr(r, opts.TrustedHops)
			ctx := WithClientIP(r.Context(), ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractRealClientAddr resolves the client address, trusting X-Forwarded-For
// only when the request arrives from a private IP and trustedHops > 0.
// With trustedHops=N the Nth-from-end XFF entry is selected; fewer entries
// than expected fails closed to RemoteAddr.
func extractRealClientAddr(r *http.Request, trustedHops int) string {
	// should never happen
	if r.RemoteAddr == "" {
		return "0.0.0.0"
	}

	clientAddr, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// malformed remote addr
		return r.RemoteAddr
	}

	ip := net.ParseIP(clientAddr)
	if ip == nil {
		return "0.0.0.0"
	}

	if !ip.IsPrivate() || trustedHops <= 0 {
		// not from our infrastructure, or no trusted proxies configured:
		// strip forwarded headers so nothing downstream trusts them
		r.Header.Del("X-Forwarded-For")
		r.Header.Del("X-Forwarded-Proto")
		return clientAddr
	}

	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		idx := len(parts) - trustedHops
		if idx < 0 {
			// fewer entries than expected proxies, fail closed
			r.Header.Del("X-Forwarded-For")
			r.Header.Del("X-Forwarded-Proto")
			return clientAddr
		}
		if candidate := strings.TrimSpace(parts[idx]); net.ParseIP(candidate) != nil {
			clientAddr = candidate
		}
	}

	return clientAddr
}

func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPKey{}, ip)
}
