package pathutil

import "strings"

// HasDotSegments reports whether any path segment is "." or "..".
func HasDotSegments(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

// ValidRepoPath reports whether p is safe to pass to the content API as a
// repository-relative path: non-empty, relative, forward slashes only,
// no dot segments, no empty segments.
func ValidRepoPath(p string) bool {
	if p == "" {
		return false
	}
	if strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
		return false
	}
	if strings.ContainsAny(p, "\\\x00") {
		return false
	}
	if strings.Contains(p, "//") {
		return false
	}
	return !HasDotSegments(p)
}
