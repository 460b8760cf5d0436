package cfg

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
)

type App struct {
	LogJSON         bool
	LogLevel        string
	LogPostData     bool
	HTTPPort        int
	AdminPort       int
	EnablePprof     bool
	EnablePyroscope bool
	EnableTracing   bool
	PyroServer      string
	PyroTenantID    string
	OTLPEndpoint    string
	TraceSample     float64
	StacktraceLevel string

	GitUsername    string
	GitRepo        string
	GitPostsDir    string
	GitToken       string
	GitCacheMaxAge int

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Register binds all config fields to the given FlagSet with defaults inline
func Register(fs *flag.FlagSet, c *App) {
	fs.BoolVar(&c.LogJSON, "log-json", true, "JSON logs (true) or logfmt (false)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug|info|warn|error")
	fs.BoolVar(&c.LogPostData, "log-post-data", false, "log parsed post front matter at debug level")
	fs.IntVar(&c.HTTPPort, "http-port", 8080, "listen TCP port (1..65535)")
	fs.IntVar(&c.AdminPort, "admin-port", 9000, "admin listen TCP port (1..65535)")
	fs.BoolVar(&c.EnablePprof, "enable-pprof", true, "Enable pprof profiling (on admin port only)")
	fs.BoolVar(&c.EnableTracing, "enable-tracing", false, "Enable OTLP tracing and push to otlp-endpoint")
	fs.BoolVar(&c.EnablePyroscope, "enable-pyroscope", false, "Enable pushing Pyroscope data to server set in -pyro-server")
	fs.Float64Var(&c.TraceSample, "trace-sample", 0.0, "trace sampling ratio (0..1)")
	fs.StringVar(&c.StacktraceLevel, "stacktrace-level", "error", "debug|info|warn|error")
	fs.StringVar(&c.PyroServer, "pyro-server", "", "pyroscope server url to push to")
	fs.StringVar(&c.PyroTenantID, "pyro-tenant", "", "tenant (x-scope-orgid) to use for pyro-server")
	fs.StringVar(&c.OTLPEndpoint, "otlp-endpoint", "", "OTLP endpoint to push to (gRPC) (host:port)")
	fs.StringVar(&c.GitUsername, "git-username", "", "git hosting account that owns the content repository")
	fs.StringVar(&c.GitRepo, "git-repo", "", "content repository name")
	fs.StringVar(&c.GitPostsDir, "git-posts-dir", "posts", "directory within the repository holding posts")
	fs.StringVar(&c.GitToken, "git-token", "", "access token for the content API (optional for public repos)")
	fs.IntVar(&c.GitCacheMaxAge, "git-cache-max-age", 60, "cache-control max-age hint sent to the content API, seconds")
	fs.Float64Var(&c.RateLimitPerSecond, "rate-limit-per-second", 10, "per-ip request refill rate")
	fs.IntVar(&c.RateLimitBurst, "rate-limit-burst", 30, "per-ip request burst ceiling")
}

// FillFromEnv sets any flag not explicitly passed on the CLI from
// environment variables. Flag "foo-bar" maps to PREFIX_FOO_BAR.
// Precedence: cli flag > env var > default.
func FillFromEnv(fs *flag.FlagSet, prefix string, logf func(string, ...any)) {
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	fs.VisitAll(func(f *flag.Flag) {
		key := prefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
		envVal, envSet := os.LookupEnv(key)
		if !envSet {
			return
		}
		if explicit[f.Name] {
			if logf != nil {
				logf("flag -%s: cli value %q overrides env %s=%q", f.Name, f.Value.String(), key, envVal)
			}
			return
		}
		prev := f.Value.String()
		if err := fs.Set(f.Name, envVal); err != nil {
			fs.Set(f.Name, prev)
			if logf != nil {
				logf("flag -%s: ignoring invalid env %s=%q: %v", f.Name, key, envVal, err)
			}
		}
	})
}

// Validate checks that config values are within expected ranges and formats.
// Returns an error describing all invalid fields, or nil if all valid.
func Validate(c App) error {
	var errs []error

	// Ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.HTTPPort))
	}
	if c.AdminPort < 1 || c.AdminPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid ADMIN_PORT %d (must be 1..65535)", c.AdminPort))
	}
	if c.AdminPort == c.HTTPPort {
		errs = append(errs, fmt.Errorf("ADMIN_PORT and HTTP_PORT must differ (both %d)", c.HTTPPort))
	}

	// Log levels
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err))
	}
	if c.StacktraceLevel != "" {
		if _, err := log.ParseLevel(c.StacktraceLevel); err != nil {
			errs = append(errs, fmt.Errorf("invalid STACKTRACE_LEVEL %q: %w", c.StacktraceLevel, err))
		}
	}

	// Tracing sample
	if c.TraceSample < 0 || c.TraceSample > 1 {
		errs = append(errs, fmt.Errorf("invalid TRACE_SAMPLE %.3f (must be 0..1)", c.TraceSample))
	}

	// Pyroscope (URL and scheme)
	if c.EnablePyroscope {
		if c.PyroServer == "" {
			errs = append(errs, fmt.Errorf("PYRO_SERVER required when ENABLE_PYROSCOPE=true"))
		} else if u, err := url.Parse(c.PyroServer); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PYRO_SERVER must be a URL (got %q)", c.PyroServer))
		}
		if c.PyroTenantID == "" {
			errs = append(errs, fmt.Errorf("PYRO_TENANT required when ENABLE_PYROSCOPE=true"))
		}
	}

	// OTLP tracing (grpc exporter wants host:port, no scheme)
	if c.EnableTracing {
		if c.OTLPEndpoint == "" {
			errs = append(errs, fmt.Errorf("OTLP_ENDPOINT required when ENABLE_TRACING=true"))
		} else if _, _, err := net.SplitHostPort(c.OTLPEndpoint); err != nil {
			errs = append(errs, fmt.Errorf("OTLP_ENDPOINT must be host:port (got %q): %v", c.OTLPEndpoint, err))
		}
	}

	// Content source
	if c.GitUsername == "" {
		errs = append(errs, fmt.Errorf("GIT_USERNAME is required"))
	}
	if c.GitRepo == "" {
		errs = append(errs, fmt.Errorf("GIT_REPO is required"))
	}
	if c.GitPostsDir == "" {
		errs = append(errs, fmt.Errorf("GIT_POSTS_DIR is required"))
	} else if strings.HasPrefix(c.GitPostsDir, "/") || strings.HasSuffix(c.GitPostsDir, "/") {
		errs = append(errs, fmt.Errorf("GIT_POSTS_DIR must not have leading or trailing slashes (got %q)", c.GitPostsDir))
	}
	if c.GitCacheMaxAge < 0 {
		errs = append(errs, fmt.Errorf("GIT_CACHE_MAX_AGE must be >= 0 (got %d)", c.GitCacheMaxAge))
	}

	// Rate limiting
	if c.RateLimitPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_SECOND must be > 0 (got %v)", c.RateLimitPerSecond))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be >= 1 (got %d)", c.RateLimitBurst))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
