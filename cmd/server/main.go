package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/blog"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/bloghttp"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/cfg"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/gitapi"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/health"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/httpserver"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/metrics"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/opshttp"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/otelx"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/prof"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/ratelimit"
	v "github.com/keithlinneman/linnemanlabs-blogapi/internal/version"
)

const appName = "linnemanlabs-blogapi"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vi := v.Get()

	// local development convenience, ignored when no .env exists
	_ = godotenv.Load()

	var conf cfg.App
	var showVersion bool

	cfg.Register(flag.CommandLine, &conf)
	flag.BoolVar(&showVersion, "V", false, "Print version+build information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf(
			"%s %s (commit=%s, commit_date=%s, build_id=%s, build_date=%s, go=%s, dirty=%v)\n",
			appName, vi.Version, vi.Commit, vi.CommitDate, vi.BuildId, vi.BuildDate, vi.GoVersion,
			vi.VCSDirty != nil && *vi.VCSDirty,
		)
		os.Exit(0)
	}

	// Fill in config from environment variables and validate. The prefix is
	// empty so git-username reads GIT_USERNAME, log-post-data reads
	// LOG_POST_DATA, and so on.
	cfg.FillFromEnv(flag.CommandLine, "", func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})

	if err := cfg.Validate(conf); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	// Setup logging
	lvl, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v\n", conf.LogLevel, err)
		os.Exit(1)
	}
	stLvl, err := log.ParseLevel(conf.StacktraceLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid stacktrace level %s: %v\n", conf.StacktraceLevel, err)
		os.Exit(1)
	}
	lg, err := log.New(log.Options{
		App:             appName,
		Version:         vi.Version,
		Commit:          vi.Commit,
		Level:           lvl,
		StacktraceLevel: stLvl,
		JsonFormat:      conf.LogJSON,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
		os.Exit(1)
	}
	// no-op for slog/stderr, but here if we swap backends in the future to ensure any buffered logs are flushed on shutdown
	defer lg.Sync()
	L := lg.With("component", "server")
	ctx = log.WithContext(ctx, L)

	L.Info(ctx, "initializing application",
		"version", vi.Version,
		"commit", vi.Commit,
		"commit_date", vi.CommitDate,
		"build_id", vi.BuildId,
		"build_date", vi.BuildDate,
		"go_version", vi.GoVersion,
		"vcs_dirty", vi.VCSDirty,
		"http_port", conf.HTTPPort,
		"admin_port", conf.AdminPort,
		"enable_pprof", conf.EnablePprof,
		"enable_pyroscope", conf.EnablePyroscope,
		"enable_tracing", conf.EnableTracing,
		"otlp_endpoint", conf.OTLPEndpoint,
		"pyro_server", conf.PyroServer,
		"pyro_tenant", conf.PyroTenantID,
		"trace_sample", conf.TraceSample,
		"git_username", conf.GitUsername,
		"git_repo", conf.GitRepo,
		"git_posts_dir", conf.GitPostsDir,
		"git_cache_max_age", conf.GitCacheMaxAge,
		"log_post_data", conf.LogPostData,
	)

	// Setup metrics first so everything downstream can feed counters
	m := metrics.New()
	m.SetBuildInfoFromVersion(appName, "server", &vi)

	// Setup pyroscope profiling
	stopProf, err := prof.Start(ctx, prof.Options{
		Enabled:       conf.EnablePyroscope,
		AppName:       appName,
		AuthToken:     "",
		ServerAddress: conf.PyroServer,
		TenantID:      conf.PyroTenantID,
		Tags: map[string]string{
			"app":       appName,
			"component": "server",
			"version":   vi.Version,
			"commit":    vi.Commit,
			"build_id":  vi.BuildId,
			"source":    "go-agent",
		},
	})
	if err != nil {
		L.Error(ctx, err, "pyroscope start failed", "pyro_server", conf.PyroServer)
	}
	m.SetProfilingActive(err == nil && conf.EnablePyroscope)
	defer func() { stopProf() }()

	// Setup otel for tracing
	// Insecure is true because we are only writing to a collector on localhost
	shutdownOTEL, err := otelx.Init(ctx, otelx.Options{
		Enabled:  conf.EnableTracing,
		Endpoint: conf.OTLPEndpoint,
		Insecure: true,
		Sample:   conf.TraceSample,
		Service:  appName,
		Version:  vi.Version,
	})
	if err != nil {
		L.Error(ctx, err, "otel init failed")
	}
	defer func() { _ = shutdownOTEL(context.Background()) }()

	// Content API client for the git-hosted blog repository
	git, err := gitapi.New(gitapi.Options{
		Logger:         L,
		Username:       conf.GitUsername,
		Repo:           conf.GitRepo,
		Token:          conf.GitToken,
		CacheMaxAge:    conf.GitCacheMaxAge,
		ObserveRequest: m.ObserveGitRequest,
	})
	if err != nil {
		L.Error(ctx, err, "failed to create content API client")
		os.Exit(1)
	}

	// Blog accessor layer over the content client
	blogSvc, err := blog.New(blog.Options{
		Logger:         L,
		API:            git,
		PostsDir:       conf.GitPostsDir,
		LogPostData:    conf.LogPostData,
		OnPostDropped:  m.IncPostsDropped,
		OnImageFailure: m.IncImageFetchFailure,
	})
	if err != nil {
		L.Error(ctx, err, "failed to create blog service")
		os.Exit(1)
	}

	blogAPI := bloghttp.NewAPI(bloghttp.Options{
		Logger:     L,
		Service:    blogSvc,
		OnMemoHit:  m.IncMemoHit,
		OnMemoMiss: m.IncMemoMiss,
	})

	// setup toggle for server shutdown
	var gate health.ShutdownGate

	// readiness is only the shutdown gate; the service holds no state and
	// upstream reachability is surfaced per-request, not via health checks
	readiness := health.All(gate.Probe())

	// Setup rate limiter middleware
	limiter := ratelimit.New(ctx,
		ratelimit.WithRate(conf.RateLimitPerSecond, conf.RateLimitBurst),
		// increment prometheus counter on each denied request
		ratelimit.WithOnDenied(func(ip string) {
			m.IncRateLimitDenied()
		}),
		// only log the first time an ip is denied each time it is cleaned from the bucket
		ratelimit.WithOnFirstDenied(func(ip string) {
			L.Warn(ctx, "rate limit triggered", "ip", ip)
		}),
		ratelimit.WithOnCapacity(func() {
			m.IncRateLimitCapacity()
			L.Warn(ctx, "rate limit capacity reached, rejecting new visitors until some are evicted")
		}),
	)

	// start the blog API http server
	apiHTTPStop, err := httpserver.Start(
		ctx,
		&httpserver.Options{
			Port:         conf.HTTPPort,
			Health:       health.Fixed(true, ""),
			Readiness:    readiness,
			APIRoutes:    blogAPI.RegisterRoutes,
			UseRecoverMW: true,
			OnPanic:      m.IncHttpPanic,
			MetricsMW:    m.Middleware,
			RateLimitMW:  limiter.Middleware,
			Logger:       L,
		},
	)
	if err != nil {
		L.Error(ctx, err, "failed to start api http listener")
		os.Exit(1)
	}
	defer func() { _ = apiHTTPStop(context.Background()) }()

	// start admin/ops listener to serve metrics, health checks, pprof and any future admin APIs
	// sg restricts inbound to internal monitoring infrastructure
	// we reject connections from public ips in middleware
	// to prevent accidental exposure if sg is misconfigured or load balancer ever sends traffic there
	opsHTTPStop, err := opshttp.Start(ctx, L, opshttp.Options{
		Port:        conf.AdminPort,
		Metrics:     m.Handler(),
		EnablePprof: conf.EnablePprof,
		Health:      health.Fixed(true, ""),
		Readiness:   readiness,
	})
	if err != nil {
		L.Error(ctx, err, "failed to start ops http listener")
		os.Exit(1)
	}
	defer func() { _ = opsHTTPStop(context.Background()) }()

	// notify systemd that we started successfully if started under systemd
	if err := notifySystemd(); err != nil {
		// log and dont exit, worst case systemd will kill the process after timeout
		L.Warn(ctx, "failed to notify systemd of readiness", "error", err)
	}

	// block until signal so we dont exit
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	L.Info(context.Background(), "shutdown signal received")

	// fail health checks to drain connections
	gate.Set("draining")
	L.Info(context.Background(), "shutdown gate closed")

	// allow in-flight requests to finish and for the load balancer to
	// detect unhealthy and stop sending new requests
	L.Info(context.Background(), "sleeping 30s for in-flight and load balancer health checks to drain")
	forceCh := make(chan os.Signal, 1)
	signal.Notify(forceCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-time.After(30 * time.Second):
		L.Info(context.Background(), "drain period complete")
	case <-forceCh:
		L.Warn(context.Background(), "second signal received, skipping drain")
	}
	signal.Stop(forceCh)

	if err := apiHTTPStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "api http server shutdown")
	}

	if err := opsHTTPStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "ops http server shutdown")
	}

	if err := shutdownOTEL(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "otel shutdown")
	}

	stopProf()

	L.Info(context.Background(), "shutdown complete")
	os.Exit(0)
}

func notifySystemd() error {
	// systemd will set NOTIFY_SOCKET to a unix socket path if we were started under systemd with type=notify
	addr := os.Getenv("NOTIFY_SOCKET")
	if addr == "" {
		return fmt.Errorf("NOTIFY_SOCKET not set, skipping systemd notify")
	}
	conn, err := net.Dial("unixgram", addr)
	if err != nil {
		return fmt.Errorf("systemd notify failed: dial failed: %w", err)
	}
	conn.Write([]byte("READY=1"))
	if err := conn.Close(); err != nil {
		return fmt.Errorf("systemd notify failed: close failed: %w", err)
	}
	return nil
}
