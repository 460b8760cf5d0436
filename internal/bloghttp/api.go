// Package bloghttp serves blog content as a JSON API.
package bloghttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/blog"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/gitapi"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/memo"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/pathutil"
)

// BlogService is the accessor surface the API serves
type BlogService interface {
	SeriesNames(ctx context.Context) ([]string, error)
	Posts(ctx context.Context, dir string) ([]blog.Post, error)
	Series(ctx context.Context, dir string) (*blog.Series, error)
	Post(ctx context.Context, path string) (*blog.Content, error)
	Image(ctx context.Context, path string) string
}

type Options struct {
	Logger  log.Logger
	Service BlogService

	// OnMemoHit and OnMemoMiss feed the memoization counters
	OnMemoHit  func()
	OnMemoMiss func()
}

// API implements the blog content endpoints
type API struct {
	svc    BlogService
	logger log.Logger

	onMemoHit  func()
	onMemoMiss func()
}

func NewAPI(opts Options) *API {
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	return &API{
		svc:        opts.Service,
		logger:     opts.Logger,
		onMemoHit:  opts.OnMemoHit,
		onMemoMiss: opts.OnMemoMiss,
	}
}

// RegisterRoutes attaches blog endpoints to the router. Every request gets
// a fresh memoization pass: identical lookups within one request collapse,
// nothing survives across requests.
func (api *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/blog", func(r chi.Router) {
		r.Use(api.withMemoPass)
		r.Get("/series", api.HandleSeriesList)
		r.Get("/series/{dir}", api.HandleSeries)
		r.Get("/posts", api.HandlePosts)
		r.Get("/posts/{dir}", api.HandlePosts)
		r.Get("/post/*", api.HandlePost)
		r.Get("/image/*", api.HandleImage)
	})
}

func (api *API) withMemoPass(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pass := memo.NewPass()
		pass.OnHit = api.onMemoHit
		pass.OnMiss = api.onMemoMiss
		next.ServeHTTP(w, r.WithContext(memo.WithContext(r.Context(), pass)))
	})
}

// SeriesListResponse is the payload of GET /api/blog/series
type SeriesListResponse struct {
	Series []string `json:"series"`
}

// PostsResponse is the payload of GET /api/blog/posts[/{dir}]
type PostsResponse struct {
	Posts []blog.Post `json:"posts"`
}

// ImageResponse carries an image's base64 content, empty when the fetch
// degraded
type ImageResponse struct {
	Content string `json:"content"`
}

func (api *API) HandleSeriesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	names, err := api.svc.SeriesNames(ctx)
	if err != nil {
		api.writeError(ctx, w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	api.writeJSON(ctx, w, http.StatusOK, SeriesListResponse{Series: names})
}

func (api *API) HandlePosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dir := chi.URLParam(r, "dir")
	if dir != "" && !pathutil.ValidRepoPath(dir) {
		api.writeNotFound(ctx, w)
		return
	}

	posts, err := api.svc.Posts(ctx, dir)
	if err != nil {
		api.writeError(ctx, w, err)
		return
	}
	if posts == nil {
		posts = []blog.Post{}
	}
	api.writeJSON(ctx, w, http.StatusOK, PostsResponse{Posts: posts})
}

func (api *API) HandleSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dir := chi.URLParam(r, "dir")
	if !pathutil.ValidRepoPath(dir) {
		api.writeNotFound(ctx, w)
		return
	}

	series, err := api.svc.Series(ctx, dir)
	if err != nil {
		api.writeError(ctx, w, err)
		return
	}
	api.writeJSON(ctx, w, http.StatusOK, series)
}

func (api *API) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	path := chi.URLParam(r, "*")
	if !pathutil.ValidRepoPath(path) {
		api.writeNotFound(ctx, w)
		return
	}

	post, err := api.svc.Post(ctx, path)
	if err != nil {
		api.writeError(ctx, w, err)
		return
	}
	api.writeJSON(ctx, w, http.StatusOK, post)
}

func (api *API) HandleImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	path := chi.URLParam(r, "*")
	if !pathutil.ValidRepoPath(path) {
		api.writeNotFound(ctx, w)
		return
	}

	// image failures degrade to an empty content field, never an error
	content := api.svc.Image(ctx, path)
	api.writeJSON(ctx, w, http.StatusOK, ImageResponse{Content: content})
}

func (api *API) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, gitapi.ErrNotFound) {
		api.writeNotFound(ctx, w)
		return
	}
	api.logger.Error(ctx, err, "blog api request failed")
	api.writeJSON(ctx, w, http.StatusInternalServerError, map[string]string{
		"error": "internal error",
	})
}

func (api *API) writeNotFound(ctx context.Context, w http.ResponseWriter) {
	api.writeJSON(ctx, w, http.StatusNotFound, map[string]string{
		"error": "not found",
	})
}

func (api *API) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.logger.Warn(ctx, "failed to encode JSON response", "error", err)
	}
}
