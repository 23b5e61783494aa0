package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jimezsa/jobtracker/internal/catalog"
	"github.com/jimezsa/jobtracker/internal/models"
)

type CatalogCmd struct {
	Show    CatalogShowCmd   `cmd:"" default:"1" help:"Summarize the active catalog."`
	Import  CatalogImportCmd `cmd:"" help:"Load a catalog source and write it as a JSON catalog file."`
	Proxies ProxiesCmd       `cmd:"" help:"Proxy utilities for remote catalogs."`
}

type CatalogShowCmd struct{}

type CatalogImportCmd struct {
	Source string `arg:"" help:"builtin, a .json/.json5/.html file or an http(s) URL."`
	Out    string `help:"Catalog file to write." required:""`
	Merge  bool   `help:"Keep jobs already in --out and only append new ids."`
}

type catalogSummary struct {
	Source string         `json:"source"`
	Jobs   int            `json:"jobs"`
	Sites  map[string]int `json:"bySource"`
	Modes  map[string]int `json:"byMode"`
}

func (c *CatalogShowCmd) Run(ctx *Context) error {
	cat, err := ctx.Catalog()
	if err != nil {
		return err
	}
	jobs := cat.Jobs()
	summary := catalogSummary{
		Source: cat.Source(),
		Jobs:   len(jobs),
		Sites:  countBy(jobs, func(j models.Job) string { return j.Source }),
		Modes:  countBy(jobs, func(j models.Job) string { return j.Mode }),
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, summary)
	}

	fmt.Fprintf(ctx.Out, "Catalog: %s\n", summary.Source)
	fmt.Fprintf(ctx.Out, "Jobs:    %d\n", summary.Jobs)
	fmt.Fprintf(ctx.Out, "Sources: %s\n", formatCounts(summary.Sites))
	fmt.Fprintf(ctx.Out, "Modes:   %s\n", formatCounts(summary.Modes))
	return nil
}

func (c *CatalogImportCmd) Run(ctx *Context) error {
	stop := startIndicator(ctx, "Loading catalog")
	loaded, err := catalog.Load(ctx.context(), c.Source, ctx.catalogOptions())
	stop()
	if err != nil {
		return err
	}

	incoming := loaded.Jobs()
	out := incoming
	if c.Merge {
		existing, err := catalog.ReadFile(c.Out, true)
		if err != nil {
			return fmt.Errorf("read --out: %w", err)
		}
		var stats catalog.MergeStats
		out, stats = catalog.Merge(existing, incoming)
		ctx.Logger.Debug().
			Int("existing", stats.TotalExisting).
			Int("incoming", stats.TotalIncoming).
			Int("invalid", stats.InvalidIncoming).
			Int("added", stats.Added).
			Msg("catalog merged")
		ctx.UI.Infof("Added %d new jobs to %d existing", stats.Added, stats.TotalExisting)
	}

	if err := catalog.WriteFile(c.Out, out); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}
	ctx.UI.Successf("Wrote %d jobs to %s", len(out), c.Out)
	return nil
}

func countBy(jobs []models.Job, key func(models.Job) string) map[string]int {
	counts := make(map[string]int)
	for _, job := range jobs {
		value := strings.TrimSpace(key(job))
		if value == "" {
			value = "unknown"
		}
		counts[value]++
	}
	return counts
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", key, counts[key]))
	}
	return strings.Join(parts, ", ")
}
