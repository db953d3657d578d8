package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Fetcher defaults.
const (
	// defaultUserAgent is sent with every request.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// defaultTimeout bounds a single request including the body read.
	defaultTimeout = 10 * time.Second

	// defaultMaxBodySize limits how much of a response body is read.
	defaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Fetcher retrieves a single page.
// Implementations return *StatusError for any status other than 200.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Response, error)
}

// Response is a successfully fetched page.
type Response struct {
	// URL is the requested URL.
	URL string

	// StatusCode is always http.StatusOK for a returned Response.
	StatusCode int

	// ContentType is the Content-Type response header.
	ContentType string

	// Body is the response body decoded to UTF-8, truncated to the
	// fetcher's body size limit.
	Body []byte
}

// HTTPFetcher fetches pages with a plain blocking GET.
//
// Design decision: We set the User-Agent, cookie and extra headers on each
// request rather than through a custom RoundTripper so that a caller-provided
// client (httptest, proxies) is used unchanged.
type HTTPFetcher struct {
	// client performs the requests.
	client *http.Client

	// userAgent is the User-Agent header value.
	userAgent string

	// maxBodySize limits the number of body bytes read.
	maxBodySize int64

	// cookie is sent as the Cookie header when non-empty.
	cookie string

	// headers are additional request headers.
	headers map[string]string
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per page.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		f.maxBodySize = size
	}
}

// WithCookie sets a Cookie header sent with every request.
func WithCookie(cookie string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets additional headers sent with every request.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// NewHTTPFetcher creates a fetcher using client.
// A nil client is replaced by one with a 10 second timeout.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	f := &HTTPFetcher{
		client:      client,
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch issues a GET for pageURL. Network errors are returned wrapped;
// a non-200 answer is returned as *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")

	// Decode to UTF-8 from the declared or sniffed charset.
	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &Response{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        data,
	}, nil
}
