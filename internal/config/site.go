package config

import "strings"

// SiteConfig holds crawl settings for one site.
type SiteConfig struct {
	// Cookie is an HTTP cookie sent with every request to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the global depth budget. Zero keeps the global value.
	Depth int `yaml:"depth,omitempty"`

	// MaxPages overrides the global page budget. Zero keeps the global value.
	MaxPages int `yaml:"maxPages,omitempty"`

	// IgnoreLanguages replaces the global ignored language list.
	IgnoreLanguages []string `yaml:"ignoreLanguages,omitempty"`

	// IgnorePatterns are URL path globs to skip during crawling.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict crawling to URL paths matching one of the globs.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File represents the structure of the .sitescrape configuration file.
type File struct {
	// Sites maps hosts (e.g. "example.com") to their configuration.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every site unless overridden per site.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host merged over the
// defaults. The host is matched case-insensitively, with or without a
// leading "www.".
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	siteConfig, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.Depth != 0 {
		result.Depth = siteConfig.Depth
	}
	if siteConfig.MaxPages != 0 {
		result.MaxPages = siteConfig.MaxPages
	}
	if len(siteConfig.Headers) > 0 {
		merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range siteConfig.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}
	if len(siteConfig.IgnoreLanguages) > 0 {
		result.IgnoreLanguages = siteConfig.IgnoreLanguages
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}
	if len(siteConfig.FollowPatterns) > 0 {
		result.FollowPatterns = siteConfig.FollowPatterns
	}

	return result
}

func (cf *File) lookup(host string) (SiteConfig, bool) {
	want := strings.TrimPrefix(strings.ToLower(host), "www.")
	for key, sc := range cf.Sites {
		if strings.TrimPrefix(strings.ToLower(key), "www.") == want {
			return sc, true
		}
	}
	return SiteConfig{}, false
}

// Apply overrides the crawl settings of c with the non-zero fields of sc.
func (c *Config) Apply(sc SiteConfig) {
	if sc.Depth != 0 {
		c.MaxDepth = sc.Depth
	}
	if sc.MaxPages != 0 {
		c.MaxPages = sc.MaxPages
	}
	if len(sc.IgnoreLanguages) > 0 {
		c.IgnoreLanguages = sc.IgnoreLanguages
	}
}
