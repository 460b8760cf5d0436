package blog

import (
	"sort"
	"time"
)

// PostData is the front matter of a post. Unknown fields collect in Extra.
type PostData struct {
	Title       string         `yaml:"title" json:"title"`
	Date        string         `yaml:"date" json:"date,omitempty"`
	Tags        []string       `yaml:"tags" json:"tags,omitempty"`
	Thumbnail   string         `yaml:"thumbnail" json:"thumbnail,omitempty"`
	Description string         `yaml:"description" json:"description,omitempty"`
	Part        int            `yaml:"part" json:"part,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"extra,omitempty"`

	// Series is not front matter: it is injected from the second path
	// segment when a post lives inside a series directory
	Series string `yaml:"-" json:"series,omitempty"`
}

// Content is a loaded post body before slug assignment
type Content struct {
	Data    PostData `json:"data"`
	Content string   `json:"content"`
	Excerpt string   `json:"excerpt"`
}

// Post is a listed post
type Post struct {
	Slug    string   `json:"slug"`
	Data    PostData `json:"data"`
	Excerpt string   `json:"excerpt"`
	Content string   `json:"content"`
}

// SeriesMeta comes from a series directory's meta.json, defaulting to just
// the directory name when the file is missing
type SeriesMeta struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Series is an ordered grouping of posts sharing a directory
type Series struct {
	Meta  SeriesMeta `json:"meta"`
	Posts []Post     `json:"posts"`
}

// dateLayouts are tried in order when parsing front matter dates
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortByDate orders posts newest first. Posts without a parsable date sink
// to the end, ties break on slug for a stable listing.
func sortByDate(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, iok := parseDate(posts[i].Data.Date)
		tj, jok := parseDate(posts[j].Data.Date)
		switch {
		case iok && jok && !ti.Equal(tj):
			return ti.After(tj)
		case iok != jok:
			return iok
		default:
			return posts[i].Slug < posts[j].Slug
		}
	})
}

// sortBySeriesOrder orders series members by part number, then date
// ascending, then slug
func sortBySeriesOrder(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Data.Part != posts[j].Data.Part {
			return posts[i].Data.Part < posts[j].Data.Part
		}
		ti, iok := parseDate(posts[i].Data.Date)
		tj, jok := parseDate(posts[j].Data.Date)
		switch {
		case iok && jok && !ti.Equal(tj):
			return ti.Before(tj)
		case iok != jok:
			return iok
		default:
			return posts[i].Slug < posts[j].Slug
		}
	})
}
