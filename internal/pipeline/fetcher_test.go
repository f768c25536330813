package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RandomEdge999/RedSubContinent/internal/cache"
	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

func testFetcher(opts ...FetcherOption) *Fetcher {
	httpCfg := model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent", MaxBodyBytes: 1 << 20}
	fetchCfg := model.FetchConfig{MaxAttempts: 3, RetryDelay: time.Second}
	return NewFetcher(httpCfg, fetchCfg, nil, opts...)
}

func noSleep(t *testing.T) {
	t.Helper()
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = origSleep })
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	result, err := testFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.HTML != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if result.FromCache {
		t.Error("Expected network result")
	}
}

func TestFetch_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	var slept []time.Duration
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { fetchSleepFunc = origSleep }()

	result, err := testFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
	if len(slept) != 2 || slept[0] != time.Second {
		t.Errorf("Expected two fixed 1s delays, got %v", slept)
	}
}

func TestFetch_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	noSleep(t)

	_, err := testFetcher().Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FetchError, got %T", err)
	}
	if fe.StatusCode != http.StatusNotFound || fe.Transient {
		t.Errorf("Unexpected classification: status=%d transient=%v", fe.StatusCode, fe.Transient)
	}
	// 404 is not retryable, so should fail immediately
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetch_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	noSleep(t)

	_, err := testFetcher().Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
	var fe *FetchError
	if !errors.As(err, &fe) || !fe.Transient {
		t.Errorf("Expected transient FetchError, got %v", err)
	}
}

func TestFetch_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()
	noSleep(t)

	result, err := testFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_MalformedURLNotRetried(t *testing.T) {
	noSleep(t)

	for _, raw := range []string{"ftp://example.org/file", "http://", "://bad"} {
		_, err := testFetcher().Fetch(context.Background(), raw)
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("%q: expected *FetchError, got %v", raw, err)
		}
		if fe.Transient {
			t.Errorf("%q: malformed URL must not be transient", raw)
		}
	}
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = fmt.Fprint(w, "<html>fresh</html>")
	}))
	defer server.Close()

	store := cache.NewLayeredCache(cache.NoExpiration, t.TempDir(), cache.NoExpiration)
	fetcher := testFetcher(WithContentCache(store))

	first, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	second, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}

	if attempts.Load() != 1 {
		t.Errorf("Expected 1 network request, got %d", attempts.Load())
	}
	if !second.FromCache || second.HTML != first.HTML {
		t.Errorf("Expected cached copy of %q, got %+v", first.HTML, second)
	}
}

func TestFetch_FailureNotCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	store := cache.NewMemoryCache(cache.NoExpiration, time.Minute)
	_, err := testFetcher(WithContentCache(store)).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error")
	}
	if _, ok := store.Get(cache.CacheKey(server.URL)); ok {
		t.Error("Expected failed page to stay out of the cache")
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	var pageHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: test-agent\nDisallow: /private\n")
			return
		}
		pageHits.Add(1)
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	httpCfg := model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent", MaxBodyBytes: 1 << 20}
	fetchCfg := model.FetchConfig{MaxAttempts: 3, RespectRobots: true}
	fetcher := NewFetcher(httpCfg, fetchCfg, nil)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/private/page")
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("Expected ErrDisallowed, got %v", err)
	}
	if isRetryableFetchError(err) {
		t.Error("Robots refusal must not be retryable")
	}

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/public"); err != nil {
		t.Fatalf("Expected public page to be allowed, got %v", err)
	}
	if pageHits.Load() != 1 {
		t.Errorf("Expected 1 page request, got %d", pageHits.Load())
	}
}

func TestFetch_PacesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	httpCfg := model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent"}
	fetchCfg := model.FetchConfig{MaxAttempts: 1, RequestDelay: 80 * time.Millisecond}
	fetcher := NewFetcher(httpCfg, fetchCfg, nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := fetcher.Fetch(context.Background(), fmt.Sprintf("%s/p%d", server.URL, i)); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("Expected paced requests to take at least 150ms, took %v", elapsed)
	}
}

func TestFetch_RobotsDownloadIsPaced(t *testing.T) {
	var mu sync.Mutex
	var hits []time.Time
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nAllow: /\n")
			return
		}
		_, _ = fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	httpCfg := model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent"}
	fetchCfg := model.FetchConfig{MaxAttempts: 1, RequestDelay: 120 * time.Millisecond, RespectRobots: true}
	fetcher := NewFetcher(httpCfg, fetchCfg, nil)

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/wiki/A"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(hits) != 2 || paths[0] != "/robots.txt" || paths[1] != "/wiki/A" {
		t.Fatalf("Expected robots.txt then page, got %v", paths)
	}
	if gap := hits[1].Sub(hits[0]); gap < 100*time.Millisecond {
		t.Errorf("Expected page request to wait for the pacer after robots.txt, gap was %v", gap)
	}
}

func TestFetch_HonorsCrawlDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nCrawl-delay: 3\n")
			return
		}
		_, _ = fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	httpCfg := model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent"}
	fetchCfg := model.FetchConfig{MaxAttempts: 1, RespectRobots: true}
	fetcher := NewFetcher(httpCfg, fetchCfg, nil)

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/wiki/A"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := fetcher.pacer.Interval(); got != 3*time.Second {
		t.Errorf("Expected crawl delay to widen pacing to 3s, got %v", got)
	}
}

func TestFetch_RefreshReplacesCachedCopy(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		_, _ = fmt.Fprintf(w, "<html>v%d</html>", n)
	}))
	defer server.Close()

	store := cache.NewMemoryCache(cache.NoExpiration, time.Minute)
	_ = store.Set(cache.CacheKey(server.URL), []byte("<html>stale</html>"), 0)

	httpCfg := model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent", MaxBodyBytes: 1 << 20}
	fetchCfg := model.FetchConfig{MaxAttempts: 1, Refresh: true}
	fetcher := NewFetcher(httpCfg, fetchCfg, nil, WithContentCache(store))

	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.FromCache || result.HTML != "<html>v1</html>" {
		t.Errorf("Expected fresh network copy, got %+v", result)
	}
	if body, ok := store.Get(cache.CacheKey(server.URL)); !ok || string(body) != "<html>v1</html>" {
		t.Errorf("Expected cache to hold the fresh copy, got %q", body)
	}
}

func TestFetcher_ClearCache(t *testing.T) {
	store := cache.NewMemoryCache(cache.NoExpiration, time.Minute)
	_ = store.Set("k", []byte("v"), 0)

	if err := testFetcher(WithContentCache(store)).ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if _, ok := store.Get("k"); ok {
		t.Error("Expected cache to be empty")
	}
	if err := testFetcher(WithContentCache(nil)).ClearCache(); err != nil {
		t.Errorf("Expected no-op without a cache, got %v", err)
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 Service Unavailable", true},
		{"unexpected status: 500 Internal Server Error", true},
		{"unexpected status: 502 Bad Gateway", true},
		{"unexpected status: 429 Too Many Requests", true},
		{"unexpected status: 404 Not Found", false},
		{"unexpected status: 403 Forbidden", false},
		{"unexpected status: 401 Unauthorized", false},
		{"fetch: connection refused", true},
		{"fetch: connection reset by peer", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			err := fmt.Errorf("%s", tt.err)
			got := isRetryableFetchError(err)
			if got != tt.retryable {
				t.Errorf("isRetryableFetchError(%q) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestIsRetryableFetchError_FetchError(t *testing.T) {
	transient := &FetchError{URL: "http://x", StatusCode: 404, Transient: true, Err: errors.New("x")}
	if !isRetryableFetchError(fmt.Errorf("wrapped: %w", transient)) {
		t.Error("Expected FetchError classification to win")
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}
