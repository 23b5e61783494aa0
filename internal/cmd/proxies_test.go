package cmd

import (
	"strings"
	"testing"
)

func TestProxyCheckRequiresProxies(t *testing.T) {
	env := newTestEnv(t)
	err := (&ProxyCheckCmd{}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "no proxies configured") {
		t.Fatalf("ProxyCheckCmd.Run() error = %v, want no proxies", err)
	}
}

func TestRemoteCatalog(t *testing.T) {
	tests := map[string]string{
		"":                                "",
		"builtin":                         "",
		"jobs.json":                       "",
		"https://jobs.example.com/feed":   "https://jobs.example.com/feed",
		" http://jobs.example.com/x.json": "http://jobs.example.com/x.json",
	}
	for in, want := range tests {
		if got := remoteCatalog(in); got != want {
			t.Fatalf("remoteCatalog(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteProxyResultsPlain(t *testing.T) {
	env := newTestEnv(t)
	env.ctx.PlainText = true
	results := []ProxyCheckResult{
		{Proxy: "http://p1:8080", Status: "200", LatencyMS: 42},
		{Proxy: "http://p2:8080", Status: "error", Error: "dial tcp: refused"},
	}
	if err := writeProxyResults(env.ctx, results); err != nil {
		t.Fatalf("writeProxyResults() error = %v", err)
	}
	want := "http://p1:8080\t200\t42\t\nhttp://p2:8080\terror\t0\tdial tcp: refused\n"
	if env.out.String() != want {
		t.Fatalf("output = %q, want %q", env.out.String(), want)
	}
}
