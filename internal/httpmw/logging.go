package httpmw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
)

// responseWriter wraps http.ResponseWriter to capture status and bytes written
type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	// If WriteHeader hasn't been called yet, default to 200.
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// support Flush if the underlying writer does.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// WithLogger stores a request-scoped logger in the context, enriched with
// request identity fields so downstream handlers log with full context.
func WithLogger(base log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			reqID := RequestIDFromContext(ctx)
			clientIP := ClientIPFromContext(ctx)
			if clientIP == "" {
				clientIP = r.RemoteAddr
			}

			if span := trace.SpanFromContext(ctx); span != nil && span.IsRecording() {
				span.SetAttributes(
					attribute.String("request_id", reqID),
					attribute.String("client.address", clientIP),
					attribute.String("server.address", r.Host),
				)
			}

			L := base.With(
				"request_id", reqID,
				"client.address", clientIP,
				"server.address", r.Host,
				"http.request.method", r.Method,
				"url.path", r.URL.Path,
			)
			ctx = log.WithContext(ctx, L)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLog emits one structured line per request after the handler runs.
// Health endpoints are skipped to keep the log usable.
func AccessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			if r.URL.Path == "/-/ready" || r.URL.Path == "/-/healthy" {
				return
			}

			ctx := r.Context()
			L := log.FromContext(ctx)

			status := rw.status
			if status == 0 {
				status = http.StatusOK
			}

			// route pattern for http.route, path as fallback
			routePat := ""
			if rc := chi.RouteContext(ctx); rc != nil {
				routePat = rc.RoutePattern()
			}
			if routePat == "" {
				routePat = r.URL.Path
			}

			L.Info(ctx, "http request",
				"http.response.status_code", status,
				"http.server.request.duration", time.Since(start).Seconds(),
				"http.response.body.size", rw.bytes,
				"http.route", routePat,
			)
		})
	}
}
