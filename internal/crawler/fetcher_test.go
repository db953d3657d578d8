package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	t.Run("sends the browser user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body>Hej</body></html>`)) //nolint:errcheck
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client())
		resp, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotUA != defaultUserAgent {
			t.Errorf("expected User-Agent %q, got %q", defaultUserAgent, gotUA)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(string(resp.Body), "Hej") {
			t.Errorf("unexpected body: %q", resp.Body)
		}
	})

	t.Run("returns StatusError for non-200", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.NotFound(w, nil)
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client())
		_, err := fetcher.Fetch(context.Background(), server.URL+"/missing")

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", statusErr.StatusCode)
		}
	})

	t.Run("treats any success code other than 200 as failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client())
		_, err := fetcher.Fetch(context.Background(), server.URL)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
	})

	t.Run("decodes declared charset to UTF-8", func(t *testing.T) {
		t.Parallel()

		// "Överst" in ISO-8859-1.
		latin1 := []byte{'<', 'p', '>', 0xD6, 'v', 'e', 'r', 's', 't', '<', '/', 'p', '>'}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write(latin1) //nolint:errcheck
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client())
		resp, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(resp.Body), "Överst") {
			t.Errorf("expected decoded text, got %q", resp.Body)
		}
	})

	t.Run("sends cookie and extra headers", func(t *testing.T) {
		t.Parallel()

		var gotCookie, gotHeader string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCookie = r.Header.Get("Cookie")
			gotHeader = r.Header.Get("Accept-Language")
			_, _ = w.Write([]byte(`<html></html>`)) //nolint:errcheck
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client(),
			WithCookie("session=abc"),
			WithHeaders(map[string]string{"Accept-Language": "sv-SE"}),
		)
		if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotCookie != "session=abc" {
			t.Errorf("expected cookie, got %q", gotCookie)
		}
		if gotHeader != "sv-SE" {
			t.Errorf("expected Accept-Language sv-SE, got %q", gotHeader)
		}
	})

	t.Run("truncates body at the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(strings.Repeat("a", 1000))) //nolint:errcheck
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client(), WithMaxBodySize(100), WithUserAgent("test-agent"))
		resp, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Body) != 100 {
			t.Errorf("expected 100 bytes, got %d", len(resp.Body))
		}
	})

	t.Run("nil client gets a default timeout", func(t *testing.T) {
		t.Parallel()

		fetcher := NewHTTPFetcher(nil)
		if fetcher.client.Timeout != defaultTimeout {
			t.Errorf("expected timeout %v, got %v", defaultTimeout, fetcher.client.Timeout)
		}
	})
}
