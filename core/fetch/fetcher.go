// Package fetch implements the Fetcher interface: the lightweight
// fast-path HTTP GET attempted before any browser rendering.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kv-sajeev/sitescribe/core"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultMaxBytes = 5_000_000
)

// Options configures an HTTPFetcher. Zero values fall back to the
// package defaults.
type Options struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	MaxBytes       int64
}

// HTTPFetcher fetches web pages via plain HTTP with a browser-like
// identity. It follows redirects transparently and never retries.
type HTTPFetcher struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
	maxBytes       int64
}

// New creates an HTTPFetcher.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	return &HTTPFetcher{
		client:         &http.Client{Timeout: opts.Timeout},
		userAgent:      opts.UserAgent,
		acceptLanguage: opts.AcceptLanguage,
		maxBytes:       opts.MaxBytes,
	}
}

// Fetch retrieves the given URL. A response that is not text/html
// yields an empty HTML string with the observed status code, so the
// caller can decide to escalate instead of treating it as an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if f.acceptLanguage != "" {
		req.Header.Set("Accept-Language", f.acceptLanguage)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ct, "text/html") {
		return &core.FetchResult{StatusCode: resp.StatusCode, HTML: "", FinalURL: finalURL}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	// Lenient decode: invalid UTF-8 sequences are replaced, never fatal.
	html := strings.ToValidUTF8(string(body), "�")

	return &core.FetchResult{
		StatusCode: resp.StatusCode,
		HTML:       html,
		FinalURL:   finalURL,
	}, nil
}
