package util

import (
	"path"
	"strings"
)

// SlashPath cleans p and turns it into the forward slash form used for
// pattern matching and report locations. "." becomes "".
func SlashPath(p string) string {
	clean := path.Clean(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"))
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// Within reports whether p is dir or lies below it. Both are compared in
// slash form, so separators may be mixed.
func Within(p, dir string) bool {
	p, dir = SlashPath(p), SlashPath(dir)
	if p == "" || dir == "" {
		return p == dir
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// HasSeparator reports whether s names a path rather than a bare file name.
func HasSeparator(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
