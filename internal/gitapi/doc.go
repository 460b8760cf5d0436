// Package gitapi is a minimal client for a Git hosting content API.
//
// It speaks the contents endpoint of the GitHub REST API: file requests
// return a JSON envelope with a base64 content field, directory requests
// return an array of entries, and blobs are fetched through an entry's
// git_url. No retries and no caching live here, callers own both.
package gitapi
