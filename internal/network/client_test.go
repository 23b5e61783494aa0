package network

import (
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
)

func TestProxyPoolRotatesAndBans(t *testing.T) {
	pool, err := newProxyPool([]string{"http://a:1", " ", "http://b:2"}, time.Minute)
	if err != nil {
		t.Fatalf("newProxyPool() error = %v", err)
	}
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pool.now = func() time.Time { return clock }

	if got := pool.next(); got != "http://a:1" {
		t.Fatalf("next() = %q, want a", got)
	}
	if got := pool.next(); got != "http://b:2" {
		t.Fatalf("next() = %q, want b", got)
	}

	pool.report("http://a:1", fhttp.StatusTooManyRequests)
	pool.report("http://b:2", fhttp.StatusOK)
	if got := pool.next(); got != "http://b:2" {
		t.Fatalf("next() with a banned = %q, want b", got)
	}

	pool.report("http://b:2", fhttp.StatusForbidden)
	if got := pool.next(); got != "" {
		t.Fatalf("next() with all banned = %q, want direct", got)
	}

	clock = clock.Add(2 * time.Minute)
	if got := pool.next(); got == "" {
		t.Fatalf("next() after ban expiry = direct, want a proxy")
	}
}

func TestProxyPoolEmptyAndInvalid(t *testing.T) {
	pool, err := newProxyPool(nil, 0)
	if err != nil {
		t.Fatalf("newProxyPool(nil) error = %v", err)
	}
	if got := pool.next(); got != "" {
		t.Fatalf("next() = %q, want direct", got)
	}

	if _, err := newProxyPool([]string{"not a proxy"}, 0); err == nil {
		t.Fatalf("newProxyPool(invalid) error = nil, want error")
	}
}
