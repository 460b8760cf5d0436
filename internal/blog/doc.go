// Package blog shapes remote repository content into posts and series.
//
// It orchestrates the content API client: listing directories, fetching
// Markdown blobs, splitting front matter, building excerpts, and sorting.
// All accessors memoize through the pass carried by ctx, so one rendering
// pass never fetches the same thing twice.
package blog
