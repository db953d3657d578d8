package crawler

import (
	"errors"
	"net/url"
	"slices"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"example.com", "https://example.com"},
		{"www.example.com/about", "https://www.example.com/about"},
		{"  example.com  ", "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"https://example.com/a?b=c", "https://example.com/a?b=c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := NormalizeURL(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizeURL(got); again != got {
				t.Errorf("NormalizeURL is not idempotent: %q became %q", got, again)
			}
		})
	}
}

func TestResolveLink(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/docs/guide/")
	if err != nil {
		t.Fatalf("failed to parse base: %v", err)
	}

	tests := []struct {
		name string
		href string
		want string
	}{
		{"absolute https is kept", "https://other.org/x", "https://other.org/x"},
		{"absolute http is trimmed", "  http://example.com/y ", "http://example.com/y"},
		{"root relative", "/about", "https://example.com/about"},
		{"document relative", "intro", "https://example.com/docs/guide/intro"},
		{"parent relative", "../faq", "https://example.com/docs/faq"},
		{"query only", "?page=2", "https://example.com/docs/guide/?page=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveLink(base, tt.href)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveLink(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}

	t.Run("rejects unparsable href", func(t *testing.T) {
		t.Parallel()

		if _, err := ResolveLink(base, "%zz"); err == nil {
			t.Error("expected error for invalid escape")
		}
	})
}

func TestDomainScope(t *testing.T) {
	t.Parallel()

	t.Run("rejects english section regardless of configured languages", func(t *testing.T) {
		t.Parallel()

		for _, langs := range [][]string{nil, {}, {"de"}, {"fr", "es"}} {
			scope, err := NewDomainScope("https://example.com", langs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if scope.Accept("https://example.com/en/products") {
				t.Errorf("/en/products accepted with ignoreLanguages=%v", langs)
			}
		}
	})

	t.Run("rejects configured language sections", func(t *testing.T) {
		t.Parallel()

		scope, err := NewDomainScope("https://example.com", []string{"de", "fr-CA"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, link := range []string{
			"https://example.com/de/kontakt",
			"https://example.com/fr/contact",
			"https://example.com/shop/EN/item",
		} {
			if scope.Accept(link) {
				t.Errorf("expected %q to be rejected", link)
			}
		}
		if !scope.Accept("https://example.com/sv/kontakt") {
			t.Error("expected /sv/ to be accepted")
		}
	})

	t.Run("applies the rejection rules", func(t *testing.T) {
		t.Parallel()

		scope, err := NewDomainScope("https://www.example.com", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tests := []struct {
			link string
			want bool
		}{
			{"", false},
			{"#top", false},
			{"https://example.com/page#section", false},
			{"https://example.com/files/report.pdf", false},
			{"https://example.com/img/logo.PNG", false},
			{"https://example.com/static/app.js", false},
			{"https://example.com/style.css?v=2", false},
			{"tel:+46701234567", false},
			{"https://other.com/page", false},
			{"https://sub.example.com/page", false},
			{"https://example.com/about", true},
			{"https://www.example.com/about", true},
			{"http://EXAMPLE.com/kontakt", true},
			{"https://example.com/", true},
		}

		for _, tt := range tests {
			if got := scope.Accept(tt.link); got != tt.want {
				t.Errorf("Accept(%q) = %v, want %v", tt.link, got, tt.want)
			}
		}
	})

	t.Run("strips www from the root", func(t *testing.T) {
		t.Parallel()

		scope, err := NewDomainScope("https://WWW.Example.com/start", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scope.Root() != "example.com" {
			t.Errorf("expected root example.com, got %q", scope.Root())
		}
	})

	t.Run("rejects start URL without host", func(t *testing.T) {
		t.Parallel()

		_, err := NewDomainScope("https://", nil)
		if !errors.Is(err, ErrInvalidStartURL) {
			t.Errorf("expected ErrInvalidStartURL, got %v", err)
		}
	})

	t.Run("rejects invalid language code", func(t *testing.T) {
		t.Parallel()

		_, err := NewDomainScope("https://example.com", []string{"not a language"})
		if !errors.Is(err, ErrInvalidLanguage) {
			t.Errorf("expected ErrInvalidLanguage, got %v", err)
		}
	})
}

func TestBaseLanguages(t *testing.T) {
	t.Parallel()

	got, err := BaseLanguages([]string{"en", "EN", "en-GB", "de", " sv "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"en", "de", "sv"}
	if !slices.Equal(got, want) {
		t.Errorf("BaseLanguages() = %v, want %v", got, want)
	}
}
