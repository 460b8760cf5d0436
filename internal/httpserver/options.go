package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/health"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/httpmw"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
)

type Options struct {
	Logger log.Logger
	Port   int

	// APIRoutes registers application routes on the router.
	APIRoutes func(chi.Router)

	Health    health.Probe
	Readiness health.Probe

	UseRecoverMW bool
	OnPanic      func()

	MetricsMW   func(http.Handler) http.Handler
	RateLimitMW func(http.Handler) http.Handler

	ClientIPOpts httpmw.ClientIPOptions

	// MaxBodyBytes caps inbound request bodies; this API takes no bodies,
	// so the default is intentionally tiny.
	MaxBodyBytes int64
}
