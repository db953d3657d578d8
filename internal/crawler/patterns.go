package crawler

import (
	"net/url"
	"path"
	"strings"
)

// pathFilter applies the optional glob patterns from the site config.
// It runs after the domain scope has accepted a link.
type pathFilter struct {
	// ignore rejects any path matching one of the patterns.
	ignore []string

	// follow, when set, only admits paths matching one of the patterns.
	follow []string
}

// allows reports whether targetURL passes the ignore and follow patterns.
//
// Logic:
//  1. If the path matches any ignore pattern, skip it
//  2. If follow patterns are set and the path matches none, skip it
//  3. Otherwise allow it
func (f pathFilter) allows(targetURL string) bool {
	if len(f.ignore) == 0 && len(f.follow) == 0 {
		return true
	}

	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}

	p := u.Path
	if p == "" {
		p = "/"
	}

	for _, pattern := range f.ignore {
		if matchPattern(pattern, p) {
			return false
		}
	}

	if len(f.follow) > 0 {
		for _, pattern := range f.follow {
			if matchPattern(pattern, p) {
				return true
			}
		}
		return false
	}

	return true
}

// matchPattern checks if a URL path matches a glob pattern.
//   - "/admin/*" matches "/admin" and everything below it
//   - "*.pdf" matches the last path segment
//   - other patterns use path.Match semantics (* within a segment, ?)
func matchPattern(pattern, p string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(p, prefix+"/") || p == prefix {
			return true
		}
	}

	if matched, err := path.Match(pattern, p); err == nil && matched {
		return true
	}

	// Patterns without a slash are matched against the last segment.
	if !strings.Contains(pattern, "/") {
		if matched, err := path.Match(pattern, path.Base(p)); err == nil && matched {
			return true
		}
	}

	return false
}
