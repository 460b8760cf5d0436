package gitapi

import (
	"encoding/base64"
	"strings"
)

// Entry is one item of a directory listing
type Entry struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Type   string `json:"type"` // "file" or "dir"
	Size   int64  `json:"size"`
	GitURL string `json:"git_url"`
}

// IsDir reports whether the entry is a sub-directory
func (e Entry) IsDir() bool { return e.Type == "dir" }

// IsMarkdown reports whether the entry is a markdown file
func (e Entry) IsMarkdown() bool {
	return e.Type == "file" && strings.HasSuffix(e.Name, ".md")
}

// File is the JSON envelope returned for a single file
type File struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	GitURL   string `json:"git_url"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Blob is the envelope returned from a git_url blob fetch
type Blob struct {
	SHA      string `json:"sha"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// apiError is the body the API sends with non-2xx statuses
type apiError struct {
	Message string `json:"message"`
}

// DecodeContent decodes a base64 content field. The API wraps base64 at
// 60 columns, so embedded newlines are stripped first.
func DecodeContent(content string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, content)
	return base64.StdEncoding.DecodeString(clean)
}
