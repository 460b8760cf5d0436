package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/health"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/httpmw"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/xerrors"
)

// NewHandler builds an HTTP handler with routes + middleware
// main() owns *http.Server so it can do graceful shutdown
func NewHandler(opts *Options) http.Handler {
	// chi router
	r := chi.NewRouter()

	// Compress JSON responses
	r.Use(middleware.Compress(5,
		"application/json",
	))

	// Annotate logger and tracer with http.route from chi route pattern if trace is recording
	r.Use(httpmw.AnnotateHTTPRoute)

	// Access log middleware
	r.Use(httpmw.AccessLog())

	maxBody := opts.MaxBodyBytes
	if maxBody == 0 {
		maxBody = 1024 // nobody should be sending bodies to a read-only API
	}
	r.Use(httpmw.MaxBody(maxBody))

	// Register health routes at /-/healthy and /-/ready if probes provided
	if opts.Health != nil {
		r.Get("/-/healthy", health.HealthzHandler(opts.Health))
	}
	if opts.Readiness != nil {
		r.Get("/-/ready", health.ReadyzHandler(opts.Readiness))
	}

	if opts.APIRoutes != nil {
		opts.APIRoutes(r)
	}

	// Decide which requests get traced
	shouldTrace := func(p string) bool {
		// dont trace health checks
		return p != "/-/healthy" && p != "/-/ready"
	}

	tracing := func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(
			next,
			"http.server",
			otelhttp.WithFilter(func(r *http.Request) bool {
				return shouldTrace(r.URL.Path)
			}),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				// AnnotateHTTPRoute will rename the span later to the final route pattern
				return r.Method + " " + r.URL.Path
			}),
			otelhttp.WithPublicEndpointFn(func(r *http.Request) bool { return true }),
		)
	}

	var recoverMW func(http.Handler) http.Handler
	if opts.UseRecoverMW {
		recoverMW = httpmw.Recover(opts.Logger, opts.OnPanic)
	}

	// Outermost first; nil entries are skipped by Chain.
	return httpmw.Chain(r,
		// Security headers outermost to ensure they are served on every response
		httpmw.SecurityHeaders,
		// Recovery middleware to log panics and serve 500 response
		recoverMW,
		// Request ID (outer so everything downstream sees it)
		httpmw.RequestID("X-Request-Id"),
		// Client IP resolution (must be before rate limiter and logging)
		httpmw.ClientIPWithOptions(opts.ClientIPOpts),
		// Rate limiting (after client IP mw so it uses resolved IP)
		opts.RateLimitMW,
		tracing,
		// add trace-id headers to any requests with a recording trace
		httpmw.TraceResponseHeaders("X-Trace-Id", "X-Span-Id"),
		// Metrics middleware for prometheus instrumentation
		opts.MetricsMW,
		// Request-scoped logging (inner so it sees trace_id, etc)
		httpmw.WithLogger(opts.Logger),
	)
}

// Server timeout defaults, shared with opshttp.
const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultMaxHeaderBytes    = 1 << 20 // 1 MB
)

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		MaxHeaderBytes:    DefaultMaxHeaderBytes,
	}
}

// Start public HTTP server
// Returns stop(ctx) for graceful shutdown
func Start(ctx context.Context, opts *Options) (func(context.Context) error, error) {
	port := opts.Port
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf(":%d", port)

	handler := NewHandler(opts)
	srv := NewServer(addr, handler)

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp4", addr)
	if err != nil {
		return nil, xerrors.EnsureTrace(err)
	}

	go func() {
		opts.Logger.Info(ctx, "http server listening", "addr", addr)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			opts.Logger.Error(ctx, err, "http server error")
		}
	}()

	var once sync.Once
	stop := func(sctx context.Context) (retErr error) {
		once.Do(func() {
			opts.Logger.Info(sctx, "http server shutting down")
			c, cancel := context.WithTimeout(sctx, 5*time.Second)
			defer cancel()
			retErr = srv.Shutdown(c)
		})
		return retErr
	}
	return stop, nil
}
