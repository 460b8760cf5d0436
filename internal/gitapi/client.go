package gitapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/xerrors"
)

// ErrNotFound is returned when the API reports a missing resource,
// either with a 404 status or an explicit "Not Found" payload.
var ErrNotFound = xerrors.New("gitapi: not found")

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100

	// bodyPreviewLimit bounds how much of a failing response body makes
	// it into logs and error messages
	bodyPreviewLimit = 200
)

type Options struct {
	Logger log.Logger

	// Account and repository holding the content
	Username string
	Repo     string

	// Access token, optional for public repositories
	Token string

	// Cache-Control max-age hint sent with every request, seconds
	CacheMaxAge int

	// BaseURL overrides the API root, used by tests
	BaseURL string

	// HTTPClient overrides the default client
	HTTPClient *http.Client

	// ObserveRequest is called after every outbound request with the
	// resource kind (contents, blob), the status code as a string, and
	// the elapsed seconds. Used to feed prometheus counters.
	ObserveRequest func(resource, status string, seconds float64)
}

type Client struct {
	opts   Options
	base   string
	hc     *http.Client
	logger log.Logger
}

// New creates a content API client with the given options
func New(opts Options) (*Client, error) {
	if opts.Username == "" {
		return nil, xerrors.New("Username is required")
	}
	if opts.Repo == "" {
		return nil, xerrors.New("Repo is required")
	}
	if opts.CacheMaxAge < 0 {
		return nil, xerrors.Newf("CacheMaxAge must be >= 0 (got %d)", opts.CacheMaxAge)
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}

	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		opts:   opts,
		base:   base,
		hc:     hc,
		logger: opts.Logger,
	}, nil
}

// contentsURL builds the contents endpoint URL for a repository path
func (c *Client) contentsURL(path string) string {
	escaped := make([]string, 0, 4)
	for _, seg := range strings.Split(path, "/") {
		escaped = append(escaped, url.PathEscape(seg))
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.base,
		url.PathEscape(c.opts.Username),
		url.PathEscape(c.opts.Repo),
		strings.Join(escaped, "/"),
	)
}

// get performs a single request and returns the body. 404s and explicit
// "Not Found" payloads map to ErrNotFound, any other non-2xx status to a
// fetch failure carrying a truncated body preview.
func (c *Client) get(ctx context.Context, rawurl, resource string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, xerrors.Wrapf(err, "build request for %s", rawurl)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", c.opts.CacheMaxAge))
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "token "+c.opts.Token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.observe(resource, "error", start)
		c.logger.Warn(ctx, "content api request failed",
			"resource", resource,
			"url", rawurl,
			"error", err.Error(),
		)
		return nil, xerrors.Wrapf(err, "GET %s", rawurl)
	}
	defer resp.Body.Close()
	c.observe(resource, fmt.Sprintf("%d", resp.StatusCode), start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Wrapf(err, "read response for %s", rawurl)
	}

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Warn(ctx, "content api resource not found",
			"resource", resource,
			"url", rawurl,
			"body_preview", preview(body),
		)
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn(ctx, "content api returned non-ok status",
			"resource", resource,
			"url", rawurl,
			"status", resp.StatusCode,
			"body_preview", preview(body),
		)
		return nil, xerrors.Newf("GET %s: status %d: %s", rawurl, resp.StatusCode, preview(body))
	}

	// some failures come back 2xx with an error payload
	var ae apiError
	if json.Unmarshal(body, &ae) == nil && ae.Message == "Not Found" {
		return nil, ErrNotFound
	}

	return body, nil
}

func (c *Client) observe(resource, status string, start time.Time) {
	if c.opts.ObserveRequest != nil {
		c.opts.ObserveRequest(resource, status, time.Since(start).Seconds())
	}
}

// GetFile fetches a single file's JSON envelope. A directory path returns
// an error since the API responds with an array there.
func (c *Client) GetFile(ctx context.Context, path string) (*File, error) {
	body, err := c.get(ctx, c.contentsURL(path), "contents")
	if err != nil {
		return nil, err
	}

	// directory responses are a JSON array, sniff before unmarshaling into
	// the file envelope so they fail with a real error rather than not-found
	if trimmed := bytes.TrimLeft(body, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, xerrors.Newf("path %q is a directory", path)
	}

	var f File
	if err := json.Unmarshal(body, &f); err != nil {
		c.logger.Warn(ctx, "content api file response unparsable",
			"path", path,
			"body_preview", preview(body),
		)
		return nil, ErrNotFound
	}
	return &f, nil
}

// ListDir fetches a directory listing, following per_page pagination until
// a short page. Entry order is the API's.
func (c *Client) ListDir(ctx context.Context, path string) ([]Entry, error) {
	var all []Entry
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s?per_page=%d&page=%d", c.contentsURL(path), perPage, page)
		body, err := c.get(ctx, u, "contents")
		if err != nil {
			return nil, err
		}

		var entries []Entry
		if err := json.Unmarshal(body, &entries); err != nil {
			c.logger.Warn(ctx, "content api listing unparsable",
				"path", path,
				"body_preview", preview(body),
			)
			return nil, ErrNotFound
		}
		all = append(all, entries...)
		if len(entries) < perPage {
			break
		}
	}
	return all, nil
}

// GetBlob fetches a blob through its git_url and returns the raw base64
// content string
func (c *Client) GetBlob(ctx context.Context, gitURL string) (string, error) {
	body, err := c.get(ctx, gitURL, "blob")
	if err != nil {
		return "", err
	}

	var b Blob
	if err := json.Unmarshal(body, &b); err != nil {
		return "", xerrors.Wrapf(err, "parse blob response from %s", gitURL)
	}
	return b.Content, nil
}

// preview truncates a response body for log and error output, backing up
// to a rune boundary so a multi-byte sequence is never split
func preview(body []byte) string {
	if len(body) <= bodyPreviewLimit {
		return string(body)
	}
	cut := bodyPreviewLimit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
