// Package catalog loads the fixed list of job postings the tracker scores.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/network"
	"github.com/rs/zerolog"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Builtin names the embedded default catalog.
const Builtin = "builtin"

var ErrUnsupportedSource = errors.New("unsupported catalog source")

//go:embed jobs.json
var builtinJobs []byte

// Fetcher retrieves remote documents. *network.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Options configures Load.
type Options struct {
	Logger zerolog.Logger
	// Fetcher is used for http(s) sources. When nil a network.Client is built
	// from Network.
	Fetcher Fetcher
	Network network.Options
	// Now anchors postedDaysAgo for JSON-LD postings; zero means time.Now.
	Now time.Time
}

// Catalog is an immutable, ordered set of jobs.
type Catalog struct {
	jobs  []models.Job
	byID  map[string]int
	label string
}

// New builds a catalog from jobs. Jobs without an id are dropped. Duplicate
// ids are kept in order and logged; Find returns the first.
func New(jobs []models.Job, label string, logger zerolog.Logger) *Catalog {
	c := &Catalog{
		jobs:  make([]models.Job, 0, len(jobs)),
		byID:  make(map[string]int, len(jobs)),
		label: label,
	}
	for _, job := range jobs {
		job.ID = strings.TrimSpace(job.ID)
		if job.ID == "" {
			logger.Warn().Str("catalog", label).Str("title", job.Title).Msg("skipping job without id")
			continue
		}
		if job.PostedDaysAgo < 0 {
			job.PostedDaysAgo = 0
		}
		if _, ok := c.byID[job.ID]; ok {
			logger.Warn().Str("catalog", label).Str("id", job.ID).Msg("duplicate job id")
		} else {
			c.byID[job.ID] = len(c.jobs)
		}
		c.jobs = append(c.jobs, job)
	}
	return c
}

// Jobs returns a copy of the job list in catalog order.
func (c *Catalog) Jobs() []models.Job {
	return append([]models.Job(nil), c.jobs...)
}

func (c *Catalog) Find(id string) (models.Job, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Job{}, false
	}
	return c.jobs[i], true
}

func (c *Catalog) Len() int {
	return len(c.jobs)
}

// Source describes where the catalog came from.
func (c *Catalog) Source() string {
	return c.label
}

// Load reads a catalog from source: "" or "builtin" for the embedded list, a
// .json/.json5 file, an .html/.htm page carrying JobPosting JSON-LD, or an
// http(s) URL serving either.
func Load(ctx context.Context, source string, opts Options) (*Catalog, error) {
	source = strings.TrimSpace(source)
	jobs, err := loadJobs(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	label := source
	if label == "" {
		label = Builtin
	}
	c := New(jobs, label, opts.Logger)
	opts.Logger.Debug().Str("catalog", label).Int("jobs", c.Len()).Msg("catalog loaded")
	return c, nil
}

func loadJobs(ctx context.Context, source string, opts Options) ([]models.Job, error) {
	if source == "" || strings.EqualFold(source, Builtin) {
		return DecodeJSON(builtinJobs)
	}

	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		fetcher := opts.Fetcher
		if fetcher == nil {
			client, err := network.NewClient(opts.Network)
			if err != nil {
				return nil, err
			}
			fetcher = client
		}
		body, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		if looksLikeJSON(body) {
			return DecodeJSON(body)
		}
		return DecodeHTML(bytes.NewReader(body), source, now(opts))
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".json", ".json5":
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		return DecodeJSON(data)
	case ".html", ".htm":
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		defer f.Close()
		return DecodeHTML(f, "", now(opts))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	}
}

// DecodeJSON parses a JSON or JSON5 array of jobs, or an object with a
// "jobs" array.
func DecodeJSON(data []byte) ([]models.Job, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Job{}, nil
	}

	var jobs []models.Job
	arrayErr := json5.Unmarshal(data, &jobs)
	if arrayErr == nil {
		if jobs == nil {
			jobs = []models.Job{}
		}
		return jobs, nil
	}

	var wrapped struct {
		Jobs []models.Job `json:"jobs"`
	}
	if err := json5.Unmarshal(data, &wrapped); err != nil || wrapped.Jobs == nil {
		return nil, fmt.Errorf("decode catalog: %w", arrayErr)
	}
	return wrapped.Jobs, nil
}

func looksLikeJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')
}

func now(opts Options) time.Time {
	if opts.Now.IsZero() {
		return time.Now()
	}
	return opts.Now
}
