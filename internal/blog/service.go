package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/sync/errgroup"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/gitapi"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/mdtext"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/memo"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/xerrors"
)

// fetchConcurrency bounds parallel file fetches per listing
const fetchConcurrency = 8

// ContentAPI is the slice of the gitapi client the service needs
type ContentAPI interface {
	GetFile(ctx context.Context, path string) (*gitapi.File, error)
	ListDir(ctx context.Context, path string) ([]gitapi.Entry, error)
	GetBlob(ctx context.Context, gitURL string) (string, error)
}

type Options struct {
	Logger log.Logger

	// API is the content API client
	API ContentAPI

	// PostsDir is the repository directory holding posts, no leading or
	// trailing slash
	PostsDir string

	// LogPostData emits a debug log of parsed front matter per load
	LogPostData bool

	// OnPostDropped fires when a listing discards an untitled post
	OnPostDropped func()

	// OnImageFailure fires when an image fetch degrades to ""
	OnImageFailure func()
}

type Service struct {
	api      ContentAPI
	postsDir string
	logData  bool
	logger   log.Logger

	onPostDropped  func()
	onImageFailure func()
}

func New(opts Options) (*Service, error) {
	if opts.API == nil {
		return nil, xerrors.New("API is required")
	}
	if opts.PostsDir == "" {
		return nil, xerrors.New("PostsDir is required")
	}
	if strings.HasPrefix(opts.PostsDir, "/") || strings.HasSuffix(opts.PostsDir, "/") {
		return nil, xerrors.Newf("PostsDir must not have leading or trailing slashes (got %q)", opts.PostsDir)
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	return &Service{
		api:            opts.API,
		postsDir:       opts.PostsDir,
		logData:        opts.LogPostData,
		logger:         opts.Logger,
		onPostDropped:  opts.OnPostDropped,
		onImageFailure: opts.OnImageFailure,
	}, nil
}

// Load fetches and parses one post file. Fetch failures, undecodable
// content, and broken front matter all surface as gitapi.ErrNotFound: a
// post that cannot be parsed does not exist as far as rendering goes.
//
// When the path has more than two segments the second one is the series
// directory and gets injected into the parsed data.
func (s *Service) Load(ctx context.Context, path string) (*Content, error) {
	return memo.Do(ctx, memo.Key("load", path), func() (*Content, error) {
		return s.load(ctx, path)
	})
}

func (s *Service) load(ctx context.Context, path string) (*Content, error) {
	f, err := s.api.GetFile(ctx, path)
	if err != nil {
		return nil, err
	}

	raw, err := gitapi.DecodeContent(f.Content)
	if err != nil {
		s.logger.Warn(ctx, "post content not decodable",
			"path", path,
			"error", err.Error(),
		)
		return nil, gitapi.ErrNotFound
	}

	var data PostData
	body, err := frontmatter.Parse(bytes.NewReader(raw), &data)
	if err != nil {
		s.logger.Warn(ctx, "post front matter unparsable",
			"path", path,
			"error", err.Error(),
		)
		return nil, gitapi.ErrNotFound
	}

	if segs := strings.Split(path, "/"); len(segs) > 2 {
		data.Series = segs[1]
	}

	plain := mdtext.Plain(body)

	c := &Content{
		Data:    data,
		Content: string(body),
		Excerpt: mdtext.Excerpt(plain, mdtext.ExcerptLength),
	}

	if s.logData {
		s.logger.Debug(ctx, "loaded post",
			"path", path,
			"title", data.Title,
			"date", data.Date,
			"series", data.Series,
			"tags", strings.Join(data.Tags, ","),
			"excerpt_len", len(c.Excerpt),
		)
	}

	return c, nil
}

// SeriesNames lists the top-level directories under the posts root
func (s *Service) SeriesNames(ctx context.Context) ([]string, error) {
	return memo.Do(ctx, memo.Key("series-names"), func() ([]string, error) {
		entries, err := s.api.ListDir(ctx, s.postsDir)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				names = append(names, e.Name)
			}
		}
		return names, nil
	})
}

// slug strips the posts root prefix and the .md suffix from a path
func (s *Service) slug(path string) string {
	return strings.TrimSuffix(strings.TrimPrefix(path, s.postsDir+"/"), ".md")
}

// postFromFile loads one file as a Post. Untitled posts return nil, they
// are invalid content and silently dropped from listings.
func (s *Service) postFromFile(ctx context.Context, path string) (*Post, error) {
	c, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if c.Data.Title == "" {
		s.logger.Warn(ctx, "dropping untitled post", "path", path)
		if s.onPostDropped != nil {
			s.onPostDropped()
		}
		return nil, nil
	}
	return &Post{
		Slug:    s.slug(path),
		Data:    c.Data,
		Excerpt: c.Excerpt,
		Content: c.Content,
	}, nil
}

// postsFromDir loads every markdown file in a directory in parallel,
// preserving listing order
func (s *Service) postsFromDir(ctx context.Context, dir string) ([]Post, error) {
	entries, err := s.api.ListDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	results := make([]*Post, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, e := range entries {
		if !e.IsMarkdown() {
			continue
		}
		g.Go(func() error {
			p, err := s.postFromFile(gctx, e.Path)
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return compact(results), nil
}

// Posts lists posts under the posts root, or under one sub-directory.
//
// With dir == "" markdown files at the root become posts and each
// sub-directory expands one level, no deeper. With a dir argument only that
// directory's markdown files are loaded, sub-directories inside it are
// ignored. Results sort newest first.
func (s *Service) Posts(ctx context.Context, dir string) ([]Post, error) {
	return memo.Do(ctx, memo.Key("posts", dir), func() ([]Post, error) {
		return s.posts(ctx, dir)
	})
}

func (s *Service) posts(ctx context.Context, dir string) ([]Post, error) {
	target := s.postsDir
	if dir != "" {
		target = s.postsDir + "/" + dir
	}

	entries, err := s.api.ListDir(ctx, target)
	if err != nil {
		return nil, err
	}

	// index-addressed buckets keep input order independent of completion order
	buckets := make([][]Post, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, e := range entries {
		switch {
		case e.IsMarkdown():
			g.Go(func() error {
				p, err := s.postFromFile(gctx, e.Path)
				if err != nil {
					return err
				}
				if p != nil {
					buckets[i] = []Post{*p}
				}
				return nil
			})
		case e.IsDir() && dir == "":
			g.Go(func() error {
				ps, err := s.postsFromDir(gctx, e.Path)
				if err != nil {
					return err
				}
				buckets[i] = ps
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var posts []Post
	for _, b := range buckets {
		posts = append(posts, b...)
	}
	sortByDate(posts)
	return posts, nil
}

// Series returns a series directory's posts in part order plus its
// metadata. A missing or broken meta.json degrades to {Name: dir}, logged
// and never propagated.
func (s *Service) Series(ctx context.Context, dir string) (*Series, error) {
	return memo.Do(ctx, memo.Key("series", dir), func() (*Series, error) {
		posts, err := s.Posts(ctx, dir)
		if err != nil {
			return nil, err
		}

		ordered := make([]Post, len(posts))
		copy(ordered, posts)
		sortBySeriesOrder(ordered)

		return &Series{
			Meta:  s.seriesMeta(ctx, dir),
			Posts: ordered,
		}, nil
	})
}

func (s *Service) seriesMeta(ctx context.Context, dir string) SeriesMeta {
	fallback := SeriesMeta{Name: dir}

	f, err := s.api.GetFile(ctx, s.postsDir+"/"+dir+"/meta.json")
	if err != nil {
		s.logger.Warn(ctx, "series meta unavailable, using default",
			"dir", dir,
			"error", err.Error(),
		)
		return fallback
	}
	raw, err := gitapi.DecodeContent(f.Content)
	if err != nil {
		s.logger.Warn(ctx, "series meta not decodable, using default",
			"dir", dir,
			"error", err.Error(),
		)
		return fallback
	}
	var meta SeriesMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		s.logger.Warn(ctx, "series meta unparsable, using default",
			"dir", dir,
			"error", err.Error(),
		)
		return fallback
	}
	if meta.Name == "" {
		meta.Name = dir
	}
	return meta
}

// Post is a thin pass-through to Load keyed by explicit path
func (s *Service) Post(ctx context.Context, path string) (*Content, error) {
	return s.Load(ctx, path)
}

// Image resolves a file's metadata for its blob URL, then fetches the blob
// and returns its base64 content. Every failure degrades to "", logged and
// counted but never returned as an error.
func (s *Service) Image(ctx context.Context, path string) string {
	img, _ := memo.Do(ctx, memo.Key("image", path), func() (string, error) {
		return s.image(ctx, path), nil
	})
	return img
}

func (s *Service) image(ctx context.Context, path string) string {
	f, err := s.api.GetFile(ctx, path)
	if err != nil {
		s.logger.Warn(ctx, "image metadata fetch failed",
			"path", path,
			"error", err.Error(),
		)
		if s.onImageFailure != nil {
			s.onImageFailure()
		}
		return ""
	}
	if f.GitURL == "" {
		s.logger.Warn(ctx, "image metadata has no blob url", "path", path)
		if s.onImageFailure != nil {
			s.onImageFailure()
		}
		return ""
	}
	blob, err := s.api.GetBlob(ctx, f.GitURL)
	if err != nil {
		s.logger.Warn(ctx, "image blob fetch failed",
			"path", path,
			"git_url", f.GitURL,
			"error", err.Error(),
		)
		if s.onImageFailure != nil {
			s.onImageFailure()
		}
		return ""
	}
	return blob
}

func compact(in []*Post) []Post {
	out := make([]Post, 0, len(in))
	for _, p := range in {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
