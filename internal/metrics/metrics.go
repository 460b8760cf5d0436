package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/version"
)

type ServerMetrics struct {
	reg            *prometheus.Registry
	handler        http.Handler
	inflight       prometheus.Gauge
	reqTotal       *prometheus.CounterVec
	reqDur         *prometheus.HistogramVec
	respBytes      *prometheus.HistogramVec
	httpPanicTotal prometheus.Counter
	buildInfo      *prometheus.GaugeVec

	ratelimitDeniedTotal   prometheus.Counter
	ratelimitCapacityTotal prometheus.Counter

	errorsTotal *prometheus.CounterVec

	profilingActive prometheus.Gauge

	// content API client metrics
	gitRequestsTotal   *prometheus.CounterVec
	gitRequestDuration *prometheus.HistogramVec

	// blog accessor metrics
	postsDroppedTotal       prometheus.Counter
	imageFetchFailuresTotal prometheus.Counter
	memoTotal               *prometheus.CounterVec
}

// New returns a fresh registry + standard collectors + HTTP metrics
// safe labels only (method, route, code) to avoid path/cardinality explosions
func New() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &ServerMetrics{
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		respBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Response size by method and route",
			Buckets: []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576},
		}, []string{"method", "route"}),
		httpPanicTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_panic_total",
			Help: "Total number of recovered httpserver panics",
		}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build metadata (value is always 1)",
		}, []string{"app", "component", "version", "commit", "commit_date", "build_id", "build_date", "vcs_dirty", "go_version"}),
		ratelimitDeniedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_rate_limited_total",
			Help: "Total requests rejected by rate limiter",
		}),
		ratelimitCapacityTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_rate_limited_capacity_total",
			Help: "Total number of times rate limiter capacity reached",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total 5xx HTTP server errors by method and route (SLI)",
		}, []string{"method", "route"}),
		profilingActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "profiling_active",
			Help: "Whether continuous profiling is active (1) or disabled/failed (0)",
		}),
		gitRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "git_content_requests_total",
			Help: "Total content API requests by resource kind and status",
		}, []string{"resource", "status"}),
		gitRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "git_content_request_duration_seconds",
			Help:    "Content API request latency by resource kind",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"resource"}),
		postsDroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_posts_dropped_total",
			Help: "Posts discarded from listings for missing a title",
		}),
		imageFetchFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_image_fetch_failures_total",
			Help: "Image fetches that degraded to an empty result",
		}),
		memoTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_memo_lookups_total",
			Help: "Per-request memoization lookups by outcome (hit/miss)",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.inflight,
		m.reqTotal,
		m.reqDur,
		m.respBytes,
		m.httpPanicTotal,
		m.buildInfo,
		m.ratelimitDeniedTotal,
		m.ratelimitCapacityTotal,
		m.errorsTotal,
		m.profilingActive,
		m.gitRequestsTotal,
		m.gitRequestDuration,
		m.postsDroppedTotal,
		m.imageFetchFailuresTotal,
		m.memoTotal,
	)

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	m.reg = reg
	return m
}

func (m *ServerMetrics) IncHttpPanic() {
	m.httpPanicTotal.Inc()
}

func (m *ServerMetrics) Handler() http.Handler {
	return m.handler
}

// set once at startup.
func (m *ServerMetrics) SetBuildInfoFromVersion(app, component string, vi *version.Info) {
	dirty := "unknown"
	if vi.VCSDirty != nil {
		dirty = strconv.FormatBool(*vi.VCSDirty)
	}
	m.buildInfo.With(prometheus.Labels{
		"app":         app,
		"component":   component,
		"version":     vi.Version,
		"commit":      vi.Commit,
		"commit_date": vi.CommitDate,
		"build_id":    vi.BuildId,
		"build_date":  vi.BuildDate,
		"go_version":  vi.GoVersion,
		"vcs_dirty":   dirty,
	}).Set(1)
}

func (m *ServerMetrics) IncRateLimitDenied() {
	m.ratelimitDeniedTotal.Inc()
}

func (m *ServerMetrics) IncRateLimitCapacity() {
	m.ratelimitCapacityTotal.Inc()
}

func (m *ServerMetrics) SetProfilingActive(active bool) {
	if active {
		m.profilingActive.Set(1)
	} else {
		m.profilingActive.Set(0)
	}
}

// ObserveGitRequest records one content API round trip.
// resource is a low-cardinality kind such as "contents" or "blob";
// status is the numeric HTTP status or "error" for transport failures.
func (m *ServerMetrics) ObserveGitRequest(resource, status string, seconds float64) {
	m.gitRequestsTotal.WithLabelValues(resource, status).Inc()
	m.gitRequestDuration.WithLabelValues(resource).Observe(seconds)
}

func (m *ServerMetrics) IncPostsDropped() {
	m.postsDroppedTotal.Inc()
}

func (m *ServerMetrics) IncImageFetchFailure() {
	m.imageFetchFailuresTotal.Inc()
}

func (m *ServerMetrics) IncMemoHit() {
	m.memoTotal.WithLabelValues("hit").Inc()
}

func (m *ServerMetrics) IncMemoMiss() {
	m.memoTotal.WithLabelValues("miss").Inc()
}
