package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobtracker/internal/network"
)

const defaultProxyTarget = "https://www.google.com"

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" default:"1" help:"Validate configured proxies against the remote catalog URL."`
}

type ProxyCheckCmd struct {
	Target  string        `help:"Target URL; defaults to the catalog when it is an http(s) URL."`
	Timeout time.Duration `help:"Per-proxy timeout." default:"15s"`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	proxies := ctx.Config.Proxies
	if len(proxies) == 0 {
		return fmt.Errorf("no proxies configured; set proxies in config.json or JOBTRACKER_PROXY")
	}
	target := firstNonEmpty(p.Target, remoteCatalog(ctx.CatalogSource), defaultProxyTarget)

	results := make([]ProxyCheckResult, 0, len(proxies))
	for _, proxy := range proxies {
		results = append(results, checkProxy(ctx.context(), proxy, target, p.Timeout))
	}
	return writeProxyResults(ctx, results)
}

func checkProxy(parent context.Context, proxy, target string, timeout time.Duration) ProxyCheckResult {
	result := ProxyCheckResult{Proxy: proxy}
	fail := func(err error) ProxyCheckResult {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	client, err := network.NewClient(network.Options{Timeout: timeout, Proxies: []string{proxy}})
	if err != nil {
		return fail(err)
	}
	req, err := fhttp.NewRequest(fhttp.MethodGet, target, nil)
	if err != nil {
		return fail(err)
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	start := time.Now()
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return fail(err)
	}
	_ = resp.Body.Close()

	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status = fmt.Sprintf("%d", resp.StatusCode)
	return result
}

func remoteCatalog(source string) string {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
