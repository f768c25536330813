package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/cache"
	"github.com/RandomEdge999/RedSubContinent/internal/model"
	"github.com/RandomEdge999/RedSubContinent/internal/util"
	"github.com/RandomEdge999/RedSubContinent/internal/worker"
)

// fetchSleepFunc is replaced in tests to skip the retry delay
var fetchSleepFunc = time.Sleep

// ErrDisallowed is returned when robots.txt forbids a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// FetchError describes a failed fetch. Transient failures were retried
// until the attempt budget ran out.
type FetchError struct {
	URL        string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML       string
	FinalURL   string
	StatusCode int
	FromCache  bool
}

// Fetcher retrieves pages one at a time through a content cache, a single
// pacing slot and a fixed-delay retry loop
type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxBytes    int64
	maxAttempts int
	retryDelay  time.Duration
	pacer       *worker.Pacer
	cache       cache.Cache
	refresh     bool
	robots      *util.RobotsChecker
	logger      *zap.Logger
}

// FetcherOption customizes a Fetcher
type FetcherOption func(*Fetcher)

// WithContentCache replaces the configured content cache. Nil disables caching.
func WithContentCache(c cache.Cache) FetcherOption {
	return func(f *Fetcher) { f.cache = c }
}

// WithHTTPClient replaces the outbound client
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) { f.httpClient = client }
}

// NewFetcher creates a fetcher from configuration
func NewFetcher(httpCfg model.HTTPConfig, fetchCfg model.FetchConfig, logger *zap.Logger, opts ...FetcherOption) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := fetchCfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	f := &Fetcher{
		httpClient:  util.NewHTTPClient(httpCfg),
		userAgent:   httpCfg.UserAgent,
		maxBytes:    httpCfg.MaxBodyBytes,
		maxAttempts: attempts,
		retryDelay:  fetchCfg.RetryDelay,
		pacer:       worker.NewPacer(fetchCfg.RequestDelay),
		refresh:     fetchCfg.Refresh,
		logger:      logger,
	}
	if fetchCfg.UseCache && fetchCfg.CacheDir != "" {
		f.cache = cache.NewLayeredCache(cache.NoExpiration, fetchCfg.CacheDir, cache.NoExpiration)
	}

	for _, opt := range opts {
		opt(f)
	}

	if fetchCfg.RespectRobots {
		f.robots = util.NewRobotsChecker(f.httpClient, f.userAgent, httpCfg.Timeout, f.pacer)
	}
	return f
}

// Fetch returns the body of rawURL, from the content cache when possible
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if err := checkURL(rawURL); err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	key := cache.CacheKey(rawURL)
	if f.cache != nil && f.refresh {
		if err := f.cache.Delete(key); err != nil {
			f.logger.Warn("fetch: cache evict failed", zap.String("url", rawURL), zap.Error(err))
		}
	} else if f.cache != nil {
		if body, ok := f.cache.Get(key); ok {
			f.logger.Debug("fetch: cache hit", zap.String("url", rawURL))
			return &FetchResult{HTML: string(body), FinalURL: rawURL, StatusCode: http.StatusOK, FromCache: true}, nil
		}
	}

	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, &FetchError{URL: rawURL, Err: err}
		}
		if !allowed {
			return nil, &FetchError{URL: rawURL, Err: ErrDisallowed}
		}
		if f.pacer.SlowTo(crawlDelay) {
			f.logger.Info("fetch: honoring crawl-delay",
				zap.String("url", rawURL),
				zap.Duration("interval", f.pacer.Interval()))
		}
	}

	result, err := f.fetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(key, []byte(result.HTML), cache.NoExpiration); err != nil {
			f.logger.Warn("fetch: cache write failed", zap.String("url", rawURL), zap.Error(err))
		}
	}
	return result, nil
}

// ClearCache drops every stored page body
func (f *Fetcher) ClearCache() error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Clear()
}

// fetchWithRetry retries transient failures after a fixed delay
func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := f.pacer.Wait(ctx); err != nil {
			return nil, &FetchError{URL: rawURL, Err: err}
		}

		result, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || ctx.Err() != nil {
			break
		}
		if attempt < f.maxAttempts {
			f.logger.Warn("fetch: retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Duration("delay", f.retryDelay),
				zap.Error(err))
			fetchSleepFunc(f.retryDelay)
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures consume a retry; cancellation and redirect loops do not
		transient := ctx.Err() == nil && !strings.Contains(err.Error(), "stopped after")
		return nil, &FetchError{URL: rawURL, Transient: transient, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Transient:  resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
			Err:        fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status),
		}
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Transient: ctx.Err() == nil, Err: fmt.Errorf("read body: %w", err)}
	}

	return &FetchResult{
		HTML:       string(body),
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}, nil
}

func checkURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("parse URL: unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("parse URL: missing host in %q", rawURL)
	}
	return nil
}

// isRetryableFetchError reports whether a fetch error is worth retrying:
// 5xx, 429, timeouts and connection failures
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Transient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := err.Error()
	if strings.Contains(msg, "unexpected status: 5") || strings.Contains(msg, "unexpected status: 429") {
		return true
	}
	for _, s := range []string{"connection refused", "connection reset", "i/o timeout", "Client.Timeout"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
