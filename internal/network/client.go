// Package network fetches remote catalog documents through a browser-like
// TLS client.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

var ErrRequestFailed = errors.New("request failed")

// maxBody caps a fetched document.
const maxBody = 8 << 20

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Options configures a Client.
type Options struct {
	Timeout time.Duration
	// Proxies are tried round-robin; a proxy answering 403 or 429 is skipped
	// for ProxyBan.
	Proxies  []string
	ProxyBan time.Duration
}

type Client struct {
	http    tls_client.HttpClient
	proxies *proxyPool
	rand    *rand.Rand
	randMu  sync.Mutex
}

func NewClient(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pool, err := newProxyPool(opts.Proxies, opts.ProxyBan)
	if err != nil {
		return nil, err
	}

	jar, _ := fhttpcookiejar.New(nil)
	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(int(timeout/time.Second)),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:    client,
		proxies: pool,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Fetch GETs rawURL and returns the body. Non-2xx answers wrap ErrRequestFailed.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrRequestFailed, rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	proxy := c.proxies.next()
	if proxy != "" {
		if err := c.http.SetProxy(proxy); err != nil {
			return nil, fmt.Errorf("set proxy: %w", err)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.randomUA())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	c.proxies.report(proxy, resp.StatusCode)
	return resp, nil
}

func (c *Client) randomUA() string {
	c.randMu.Lock()
	defer c.randMu.Unlock()
	return userAgents[c.rand.Intn(len(userAgents))]
}

type proxyPool struct {
	mu          sync.Mutex
	proxies     []string
	index       int
	ban         time.Duration
	bannedUntil map[string]time.Time
	now         func() time.Time
}

func newProxyPool(raw []string, ban time.Duration) (*proxyPool, error) {
	if ban <= 0 {
		ban = 10 * time.Minute
	}
	pool := &proxyPool{ban: ban, bannedUntil: map[string]time.Time{}, now: time.Now}
	for _, proxy := range raw {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}
		u, err := url.Parse(proxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", proxy)
		}
		pool.proxies = append(pool.proxies, u.String())
	}
	return pool, nil
}

// next returns the next usable proxy, or "" for a direct connection when the
// pool is empty or every proxy is banned.
func (p *proxyPool) next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	for range p.proxies {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)
		if until, ok := p.bannedUntil[proxy]; ok {
			if p.now().Before(until) {
				continue
			}
			delete(p.bannedUntil, proxy)
		}
		return proxy
	}
	return ""
}

func (p *proxyPool) report(proxy string, status int) {
	if proxy == "" {
		return
	}
	if status != fhttp.StatusForbidden && status != fhttp.StatusTooManyRequests {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bannedUntil[proxy] = p.now().Add(p.ban)
}
