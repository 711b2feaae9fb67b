// Package routepath translates filesystem-style route paths into URL
// patterns, orders patterns by match priority, and compiles them into
// matchers used by the route table.
package routepath

import "strings"

// FromFile converts a filesystem-style relative path (extension already
// stripped, segments separated by "/") into a URL pattern string.
//
// Per segment:
//   - a trailing "index" segment is dropped entirely
//   - "[...name]" becomes ":name*" (catch-all)
//   - "[name]" becomes ":name"
//   - anything else is copied literally
//
// The result is prefixed with "/". Malformed bracket syntax is copied
// literally; no validation happens here.
//
// Examples:
//   - "blog/[id]/index" → "/blog/:id"
//   - "[...slug]"       → "/:slug*"
//   - "index"           → "/"
func FromFile(path string) string {
	segments := strings.Split(path, "/")

	// Drop a trailing "index" segment.
	if n := len(segments); n > 0 && segments[n-1] == "index" {
		segments = segments[:n-1]
	}

	converted := make([]string, 0, len(segments))
	for _, seg := range segments {
		converted = append(converted, convertSegment(seg))
	}

	return "/" + strings.Join(converted, "/")
}

// convertSegment rewrites a single bracket segment into pattern notation.
func convertSegment(seg string) string {
	if !strings.HasPrefix(seg, "[") || !strings.HasSuffix(seg, "]") || len(seg) < 3 {
		return seg
	}

	inner := seg[1 : len(seg)-1]
	if rest, ok := strings.CutPrefix(inner, "..."); ok {
		if rest == "" {
			return seg
		}
		return ":" + rest + "*"
	}
	return ":" + inner
}
