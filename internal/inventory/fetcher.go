package inventory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultFetchTimeout bounds a single inventory download.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the fetcher to documentation hosts.
const DefaultUserAgent = "docsearch (+https://github.com/hyperjump/docsearch)"

// maxInventorySize guards against unbounded responses.
const maxInventorySize = 64 << 20

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Fetcher downloads and parses inventories over HTTP(S) or from file:// URLs.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	path        string
	retryDelays []time.Duration
	logger      *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for one HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithPath overrides the inventory location relative to the documentation root.
func WithPath(p string) Option {
	return func(f *Fetcher) { f.path = p }
}

// WithRetryDelays sets the delays between attempts. Nil or empty disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) { f.retryDelays = delays }
}

// WithLogger sets a logger for retry attempts.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		path:        DefaultPath,
		retryDelays: DefaultRetryDelays(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// InventoryURL resolves the inventory location against the documentation root.
// A root without a trailing slash loses its last path segment, as with any relative reference.
func (f *Fetcher) InventoryURL(baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid docs URL: %w", err)
	}
	ref, err := url.Parse(f.path)
	if err != nil {
		return "", fmt.Errorf("invalid inventory path: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Fetch downloads the inventory below baseURL and parses it. Every error is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, baseURL string) (*Inventory, error) {
	invURL, err := f.InventoryURL(baseURL)
	if err != nil {
		return nil, &FetchError{URL: baseURL, Err: err}
	}

	data, err := f.downloadWithRetry(ctx, invURL)
	if err != nil {
		return nil, &FetchError{URL: invURL, Err: err}
	}

	inv, err := Parse(data, baseURL)
	if err != nil {
		return nil, &FetchError{URL: invURL, Err: err}
	}
	return inv, nil
}

func (f *Fetcher) downloadWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	maxAttempts := len(f.retryDelays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		data, err := f.download(ctx, rawURL)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		f.logger.Warn("inventory fetch failed, retrying",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+2),
			zap.Duration("delay", f.retryDelays[attempt]),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.retryDelays[attempt]):
		}
	}

	return nil, lastErr
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "file" {
		return readFile(u.Path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxInventorySize))
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxInventorySize))
}
