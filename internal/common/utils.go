package common

import (
	"path"
	"strings"
)

// LastLine returns the trimmed text after the final line break of s.
// Single-line input comes back trimmed.
func LastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexAny(s, "\r\n"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// FileName returns the last path element of a URL or path reference,
// ignoring any query string or fragment.
func FileName(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if ref == "" || strings.HasSuffix(ref, "/") {
		return ""
	}
	return path.Base(ref)
}
