package routepath

import "strings"

// segmentKind discriminates compiled pattern segments.
type segmentKind int

const (
	kindStatic segmentKind = iota
	kindNamed
	kindWildcard
)

// segment is one compiled pattern segment.
type segment struct {
	// literal is the exact text for static segments.
	literal string

	// name is the parameter name for named and wildcard segments.
	name string

	kind segmentKind
}

// Pattern is a compiled URL pattern matcher. Patterns are compiled once
// at table-build time and are safe for concurrent use.
type Pattern struct {
	pathname string
	segments []segment
}

// Compile parses a pattern string (e.g. "/blog/:id", "/:rest*") into a
// matcher. Matching is deterministic and total: Match either yields the
// extracted parameters or reports no match.
func Compile(pathname string) *Pattern {
	parts := splitPath(pathname)
	segments := make([]segment, 0, len(parts))

	for _, part := range parts {
		switch {
		case strings.HasPrefix(part, ":") && strings.HasSuffix(part, "*"):
			segments = append(segments, segment{name: part[1 : len(part)-1], kind: kindWildcard})
		case strings.HasPrefix(part, ":"):
			segments = append(segments, segment{name: part[1:], kind: kindNamed})
		default:
			segments = append(segments, segment{literal: part, kind: kindStatic})
		}
	}

	return &Pattern{pathname: pathname, segments: segments}
}

// Pathname returns the pattern string this matcher was compiled from.
func (p *Pattern) Pathname() string { return p.pathname }

// Match tests a request path against the whole pattern. Named
// parameters capture exactly one segment; a wildcard parameter captures
// the joined remainder of the path (zero or more segments).
func (p *Pattern) Match(path string) (map[string]string, bool) {
	parts := splitPath(path)
	params := make(map[string]string)

	i := 0
	for _, seg := range p.segments {
		switch seg.kind {
		case kindStatic:
			if i >= len(parts) || parts[i] != seg.literal {
				return nil, false
			}
			i++
		case kindNamed:
			if i >= len(parts) {
				return nil, false
			}
			params[seg.name] = parts[i]
			i++
		case kindWildcard:
			params[seg.name] = strings.Join(parts[i:], "/")
			return params, true
		}
	}

	if i != len(parts) {
		return nil, false
	}
	return params, true
}

// MatchPrefix reports whether the pattern matches the leading segments
// of a request path. The selector uses this to pick middlewares: a
// middleware mounted at "/" applies everywhere, one mounted at "/admin"
// applies to "/admin" and everything below it.
func (p *Pattern) MatchPrefix(path string) bool {
	parts := splitPath(path)

	i := 0
	for _, seg := range p.segments {
		switch seg.kind {
		case kindStatic:
			if i >= len(parts) || parts[i] != seg.literal {
				return false
			}
			i++
		case kindNamed:
			if i >= len(parts) {
				return false
			}
			i++
		case kindWildcard:
			return true
		}
	}

	return true
}

// splitPath splits a path or pattern into segments, dropping the
// leading slash. "/" yields no segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
