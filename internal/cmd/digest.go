package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jimezsa/jobtracker/internal/digest"
	"github.com/jimezsa/jobtracker/internal/export"
	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/prefs"
)

type DigestCmd struct {
	Generate DigestGenerateCmd `cmd:"" help:"Build today's top 10 and store it, replacing any earlier run."`
	Show     DigestShowCmd     `cmd:"" default:"1" help:"Print a stored digest."`
	Export   DigestExportCmd   `cmd:"" help:"Render a stored digest as text, an email draft link, json, md or yaml."`
	Copy     DigestCopyCmd     `cmd:"" help:"Write the plain-text digest to a file or stdout."`
}

type DigestGenerateCmd struct {
	Delay *time.Duration `help:"Simulated generation delay; overrides digest_delay from config."`
}

type DigestShowCmd struct {
	Date string `help:"Digest date (YYYY-MM-DD); defaults to today."`
}

type DigestExportCmd struct {
	Date   string `help:"Digest date (YYYY-MM-DD); defaults to today."`
	Format string `help:"text, email, json, md or yaml." enum:"text,email,json,md,yaml" default:"text"`
	Output string `name:"output" short:"o" help:"Write output to a file."`
}

type DigestCopyCmd struct {
	Date string `help:"Digest date (YYYY-MM-DD); defaults to today."`
	To   string `help:"Target file, or - for stdout." default:"-"`
}

func newDigestService(ctx *Context, delay time.Duration) (*digest.Service, error) {
	kv, err := ctx.Store()
	if err != nil {
		return nil, err
	}
	cat, err := ctx.Catalog()
	if err != nil {
		return nil, err
	}
	return digest.NewService(kv, prefs.New(kv, ctx.Logger), cat,
		digest.WithLogger(ctx.Logger),
		digest.WithDelay(delay),
		digest.WithClock(ctx.now),
	), nil
}

func (c *DigestGenerateCmd) Run(ctx *Context) error {
	delay := ctx.Config.Delay()
	if c.Delay != nil {
		delay = *c.Delay
	}
	svc, err := newDigestService(ctx, delay)
	if err != nil {
		return err
	}

	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	p, err := prefs.New(kv, ctx.Logger).Load(ctx.context())
	if err != nil {
		return err
	}
	if p.IsEmpty() && !ctx.JSONOutput {
		ctx.UI.Warnf("No preferences set; the digest is ranked by recency and source only. Run prefs set first for personal matches.")
	}

	stop := func() {}
	if delay > 0 {
		stop = startIndicator(ctx, "Generating digest")
	}
	d, err := svc.Generate(ctx.context())
	stop()
	if err != nil {
		return err
	}

	if ctx.JSONOutput {
		return writeJSON(ctx.Out, d)
	}
	ctx.UI.Successf("Digest for %s generated with %d jobs", export.DisplayDate(d.Date), len(d.Jobs))
	return printDigest(ctx, d)
}

func (c *DigestShowCmd) Run(ctx *Context) error {
	d, err := loadDigest(ctx, c.Date)
	if err != nil {
		return err
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, d)
	}
	return printDigest(ctx, d)
}

func (c *DigestExportCmd) Run(ctx *Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	if ctx.JSONOutput {
		format = export.FormatJSON
	}
	d, err := loadDigest(ctx, c.Date)
	if err != nil {
		return err
	}

	writer, closeOutput, err := openOutput(ctx, c.Output)
	if err != nil {
		return err
	}
	defer closeOutput()
	return export.WriteDigest(writer, d, format)
}

func (c *DigestCopyCmd) Run(ctx *Context) error {
	d, err := loadDigest(ctx, c.Date)
	if err != nil {
		return err
	}
	text := export.DigestText(d)

	target := strings.TrimSpace(c.To)
	if target == "" || target == "-" {
		_, err := fmt.Fprintln(ctx.Out, text)
		return err
	}
	if err := os.WriteFile(target, []byte(text+"\n"), 0o644); err != nil {
		ctx.Logger.Warn().Err(err).Str("target", target).Msg("digest copy failed")
		return fmt.Errorf("could not copy digest to %s", target)
	}
	ctx.UI.Successf("Digest copied to %s", target)
	return nil
}

func loadDigest(ctx *Context, date string) (models.Digest, error) {
	svc, err := newDigestService(ctx, 0)
	if err != nil {
		return models.Digest{}, err
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = svc.Today()
	} else if _, err := time.Parse(digest.DateLayout, date); err != nil {
		return models.Digest{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}

	d, err := svc.Load(ctx.context(), date)
	if errors.Is(err, digest.ErrNotFound) {
		return models.Digest{}, fmt.Errorf("no digest for %s; run: jobtracker digest generate", date)
	}
	return d, err
}

func printDigest(ctx *Context, d models.Digest) error {
	if len(d.Jobs) == 0 {
		ctx.UI.Warnf("The catalog is empty; the digest has no jobs.")
	}
	if ctx.PlainText {
		return export.WriteDigest(ctx.Out, d, export.FormatTSV)
	}
	lines := []string{fmt.Sprintf("Top %d jobs for %s", len(d.Jobs), export.DisplayDate(d.Date)), ""}
	for i, job := range d.Jobs {
		lines = append(lines,
			fmt.Sprintf("%2d. %s  %s", i+1, job.Title, ctx.UI.ScoreText(job.MatchScore)),
			fmt.Sprintf("    %s, %s (%s), %s, %s", job.Company, job.Location, job.Mode, job.Experience, job.SalaryRange),
			fmt.Sprintf("    %s", ctx.UI.LinkText(job.ApplyURL)),
		)
	}
	lines = append(lines, "", "Generated "+d.GeneratedAt.Local().Format("Jan 2 15:04"))
	_, err := fmt.Fprintln(ctx.Out, strings.Join(lines, "\n"))
	return err
}
