package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobtracker/internal/export"
	"github.com/jimezsa/jobtracker/internal/filter"
	"github.com/jimezsa/jobtracker/internal/match"
	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/prefs"
	"github.com/jimezsa/jobtracker/internal/tracker"
)

type JobsCmd struct {
	List JobsListCmd `cmd:"" default:"1" help:"List scored jobs."`
	Show JobsShowCmd `cmd:"" help:"Show one job in full."`
}

type JobsListCmd struct {
	Keyword     string `help:"Substring of title or company (case-insensitive)." short:"k"`
	Location    string `help:"Exact location, or All." default:"All"`
	Mode        string `help:"Remote, Hybrid, Onsite, or All." default:"All"`
	Experience  string `help:"Fresher, 0-1, 1-3, 3-5, or All." default:"All"`
	Source      string `help:"LinkedIn, Naukri, Indeed, or All." default:"All"`
	Status      string `help:"Not Applied, Applied, Rejected, Selected, or All." default:"All"`
	Sort        string `help:"latest, oldest, score, salary-high, salary-low." default:"latest"`
	OnlyMatches bool   `help:"Hide jobs scoring below the preference threshold."`
	Saved       bool   `help:"Only saved jobs."`
	OutputOptions
}

type JobsShowCmd struct {
	ID string `arg:"" help:"Job id."`
}

func (c *JobsListCmd) Run(ctx *Context) error {
	sortKey, err := filter.ParseSort(c.Sort)
	if err != nil {
		return err
	}
	status, err := statusCriterion(c.Status)
	if err != nil {
		return err
	}

	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	cat, err := ctx.Catalog()
	if err != nil {
		return err
	}
	p, err := prefs.New(kv, ctx.Logger).Load(ctx.context())
	if err != nil {
		return err
	}
	statuses, err := tracker.New(kv, ctx.Logger).Statuses(ctx.context())
	if err != nil {
		return err
	}
	savedIDs, err := tracker.NewSaved(kv, ctx.Logger).IDs(ctx.context())
	if err != nil {
		return err
	}
	saved := make(map[string]bool, len(savedIDs))
	for _, id := range savedIDs {
		saved[id] = true
	}

	scored := match.ScoreAll(cat.Jobs(), p)
	if c.Saved {
		scored = onlySaved(scored, saved)
	}
	jobs := filter.Apply(scored, filter.Criteria{
		Keyword:    c.Keyword,
		Location:   c.Location,
		Mode:       c.Mode,
		Experience: c.Experience,
		Source:     c.Source,
		Status:     status,
		Sort:       sortKey,
	}, statuses, p.MinMatchScore, c.OnlyMatches)

	ctx.Logger.Debug().
		Int("catalog", cat.Len()).
		Int("shown", len(jobs)).
		Str("sort", string(sortKey)).
		Msg("jobs filtered")

	format, err := resolveFormat(ctx, c.OutputOptions)
	if err != nil {
		return err
	}
	writer, closeOutput, err := openOutput(ctx, c.Output)
	if err != nil {
		return err
	}
	defer closeOutput()

	opts := writeOptions(ctx, writer, c.Links)
	opts.Statuses = statuses
	opts.Saved = saved
	if err := export.WriteJobs(writer, jobs, format, opts); err != nil {
		return err
	}

	if len(jobs) == 0 && format == export.FormatTable {
		if c.OnlyMatches {
			ctx.UI.Warnf("No jobs reach your %d%% threshold. Lower it with prefs set --min-score.", p.MinMatchScore)
		} else {
			ctx.UI.Warnf("No jobs match your filters.")
		}
	}
	if c.Output != "" {
		ctx.UI.Infof("Wrote %d jobs to %s", len(jobs), c.Output)
	}
	return nil
}

func (c *JobsShowCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	cat, err := ctx.Catalog()
	if err != nil {
		return err
	}
	job, ok := cat.Find(c.ID)
	if !ok {
		return fmt.Errorf("job %q not found in catalog %s", c.ID, cat.Source())
	}
	p, err := prefs.New(kv, ctx.Logger).Load(ctx.context())
	if err != nil {
		return err
	}
	status, err := tracker.New(kv, ctx.Logger).Status(ctx.context(), job.ID)
	if err != nil {
		return err
	}
	isSaved, err := tracker.NewSaved(kv, ctx.Logger).IsSaved(ctx.context(), job.ID)
	if err != nil {
		return err
	}

	scored := models.ScoredJob{Job: job, MatchScore: match.Score(job, p)}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, struct {
			models.ScoredJob
			Band   string           `json:"band"`
			Status models.JobStatus `json:"status"`
			Saved  bool             `json:"saved"`
		}{scored, match.BandFor(scored.MatchScore).Label, status, isSaved})
	}

	savedLabel := "no"
	if isSaved {
		savedLabel = "yes"
	}
	lines := []string{
		fmt.Sprintf("%s  %s", job.Title, ctx.UI.ScoreText(scored.MatchScore)),
		fmt.Sprintf("Company:     %s", job.Company),
		fmt.Sprintf("Location:    %s (%s)", job.Location, job.Mode),
		fmt.Sprintf("Experience:  %s", job.Experience),
		fmt.Sprintf("Salary:      %s", job.SalaryRange),
		fmt.Sprintf("Skills:      %s", strings.Join(job.Skills, ", ")),
		fmt.Sprintf("Source:      %s, %s", job.Source, postedAgo(job.PostedDaysAgo)),
		fmt.Sprintf("Status:      %s", status),
		fmt.Sprintf("Saved:       %s", savedLabel),
		"",
		job.Description,
		"",
		fmt.Sprintf("Apply: %s", ctx.UI.LinkText(job.ApplyURL)),
	}
	_, err = fmt.Fprintln(ctx.Out, strings.Join(lines, "\n"))
	return err
}

// statusCriterion accepts All or any spelling ParseStatus understands.
func statusCriterion(value string) (string, error) {
	if strings.TrimSpace(value) == "" || strings.EqualFold(value, filter.All) {
		return filter.All, nil
	}
	status, err := models.ParseStatus(value)
	if err != nil {
		return "", err
	}
	return string(status), nil
}

func onlySaved(jobs []models.ScoredJob, saved map[string]bool) []models.ScoredJob {
	out := make([]models.ScoredJob, 0, len(saved))
	for _, job := range jobs {
		if saved[job.ID] {
			out = append(out, job)
		}
	}
	return out
}

func postedAgo(days int) string {
	switch days {
	case 0:
		return "posted today"
	case 1:
		return "posted 1 day ago"
	default:
		return fmt.Sprintf("posted %d days ago", days)
	}
}
