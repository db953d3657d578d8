package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// DefaultExcludedLanguage is always part of the excluded language set.
const DefaultExcludedLanguage = "en"

// blockedExtensions are matched anywhere in the lower-cased candidate URL.
var blockedExtensions = []string{".pdf", ".jpg", ".png", ".gif", ".css", ".js"}

// NormalizeURL trims raw and prepends "https://" unless it already starts
// with "http://" or "https://". It never fails and is idempotent.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

// ResolveLink resolves href against the page URL base. Absolute http(s)
// hrefs are returned trimmed and unchanged. Anything that does not parse is
// an error, which callers treat as a rejected link.
func ResolveLink(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href, nil
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// DomainScope restricts a crawl to one root domain and drops links into
// excluded language sections. It is immutable once created.
type DomainScope struct {
	// root is the lower-cased host of the start URL without a leading "www.".
	root string

	// languageSegments are path fragments such as "/en/" that reject a link.
	languageSegments []string
}

// NewDomainScope builds the scope of a crawl starting at baseURL.
// The excluded languages are "en" plus every code in ignoreLanguages,
// reduced to their base language ("en-GB" and "EN" both become "en").
func NewDomainScope(baseURL string, ignoreLanguages []string) (*DomainScope, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStartURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidStartURL, baseURL)
	}

	codes, err := BaseLanguages(append([]string{DefaultExcludedLanguage}, ignoreLanguages...))
	if err != nil {
		return nil, err
	}

	segments := make([]string, 0, len(codes))
	for _, code := range codes {
		segments = append(segments, "/"+code+"/")
	}

	return &DomainScope{
		root:             stripWWW(u.Host),
		languageSegments: segments,
	}, nil
}

// BaseLanguages canonicalizes language codes to their lower-case base
// language and removes duplicates, keeping first-seen order.
func BaseLanguages(codes []string) ([]string, error) {
	seen := make(map[string]bool, len(codes))
	bases := make([]string, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(strings.TrimSpace(code))
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidLanguage, code, err)
		}
		b, _ := tag.Base()
		if !seen[b.String()] {
			seen[b.String()] = true
			bases = append(bases, b.String())
		}
	}
	return bases, nil
}

// Root returns the scope's root domain without "www.".
func (s *DomainScope) Root() string {
	return s.root
}

// Accept reports whether candidate may be followed. It rejects empty and
// fragment-only links, excluded language paths, any URL containing '#',
// static assets, tel: links, other hosts, and URLs that do not parse.
func (s *DomainScope) Accept(candidate string) bool {
	if candidate == "" || strings.HasPrefix(candidate, "#") {
		return false
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, segment := range s.languageSegments {
		if strings.Contains(path, segment) {
			return false
		}
	}

	if strings.Contains(candidate, "#") {
		return false
	}

	lower := strings.ToLower(candidate)
	for _, ext := range blockedExtensions {
		if strings.Contains(lower, ext) {
			return false
		}
	}
	if strings.Contains(lower, "tel:") {
		return false
	}

	return stripWWW(u.Host) == s.root
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
