package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
	"github.com/RandomEdge999/RedSubContinent/internal/worker"
)

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{model.DefaultUserAgent, "RedSubContinent-Bot"},
		{"curl/8.0", "curl"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.in); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: RedSubContinent-Bot\nDisallow: /private\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), model.DefaultUserAgent, 5*time.Second, nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/wiki/List_of_wars")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected public path to be allowed for our agent")
	}
	if delay != 2*time.Second {
		t.Errorf("expected 2s crawl delay, got %v", delay)
	}

	allowed, _, _ = checker.CanFetch(ctx, server.URL+"/private/page")
	if allowed {
		t.Error("expected disallowed path to be refused")
	}

	if robotsHits.Load() != 1 {
		t.Errorf("expected robots.txt to be fetched once per host, got %d", robotsHits.Load())
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker(nil, model.DefaultUserAgent, 5*time.Second, nil)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected missing robots.txt to allow everything")
	}
}

func TestRobotsChecker_DownloadTakesPacerSlot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nAllow: /\n")
	}))
	defer server.Close()

	pacer := worker.NewPacer(80 * time.Millisecond)
	checker := NewRobotsChecker(server.Client(), "test", 5*time.Second, pacer)
	ctx := context.Background()

	start := time.Now()
	if _, _, err := checker.CanFetch(ctx, server.URL+"/a"); err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	// Cached ruleset: no download, no slot taken
	if _, _, err := checker.CanFetch(ctx, server.URL+"/b"); err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("expected first download and cached lookup to pass without waiting")
	}

	// The download consumed the slot, so the next caller waits a full interval
	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 70*time.Millisecond {
		t.Errorf("expected next request to wait for the pacer, got %v", elapsed)
	}
}

func TestRobotsChecker_BadURL(t *testing.T) {
	checker := NewRobotsChecker(nil, "test", time.Second, nil)
	if _, _, err := checker.CanFetch(context.Background(), "::not a url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "", "internal.example")

	req, _ := http.NewRequest(http.MethodGet, "https://en.wikipedia.org/wiki/X", nil)
	got, err := proxy(req)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("expected https request to reuse http proxy, got %v", got)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://internal.example/page", nil)
	got, err = proxy(req)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected no_proxy host to bypass proxy, got %v", got)
	}
}

func TestNewHTTPClient(t *testing.T) {
	cfg := model.DefaultConfig().HTTP
	client := NewHTTPClient(cfg)
	if client.Timeout != cfg.Timeout {
		t.Errorf("expected timeout %v, got %v", cfg.Timeout, client.Timeout)
	}
	if client.CheckRedirect == nil {
		t.Error("expected redirect limit to be set")
	}
}
