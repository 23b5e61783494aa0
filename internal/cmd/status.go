package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/tracker"
)

type StatusCmd struct {
	Get     StatusGetCmd     `cmd:"" help:"Print the status of a job."`
	Set     StatusSetCmd     `cmd:"" help:"Set the status of a job."`
	History StatusHistoryCmd `cmd:"" help:"Recent status changes, newest first."`
}

type StatusGetCmd struct {
	ID string `arg:"" help:"Job id."`
}

type StatusSetCmd struct {
	ID     string `arg:"" help:"Job id."`
	Status string `arg:"" help:"Not Applied, Applied, Rejected or Selected (case-insensitive; not-applied works)."`
}

type StatusHistoryCmd struct {
	Limit int `help:"Number of entries to show (max 20)." default:"10"`
}

func (c *StatusGetCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	status, err := tracker.New(kv, ctx.Logger).Status(ctx.context(), c.ID)
	if err != nil {
		return err
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, map[string]string{"jobId": c.ID, "status": string(status)})
	}
	_, err = fmt.Fprintln(ctx.Out, status)
	return err
}

func (c *StatusSetCmd) Run(ctx *Context) error {
	status, err := models.ParseStatus(c.Status)
	if err != nil {
		return err
	}
	kv, err := ctx.Store()
	if err != nil {
		return err
	}

	job := models.Job{ID: c.ID}
	if cat, err := ctx.Catalog(); err == nil {
		if found, ok := cat.Find(c.ID); ok {
			job = found
		} else {
			ctx.UI.Warnf("%s is not in catalog %s; history will have no title", c.ID, cat.Source())
		}
	} else {
		ctx.Logger.Debug().Err(err).Msg("catalog unavailable for status lookup")
	}

	t := tracker.New(kv, ctx.Logger)
	unsubscribe := t.Subscribe(func(update models.StatusUpdate) {
		if ctx.JSONOutput {
			_ = writeJSON(ctx.Out, update)
			return
		}
		ctx.UI.Successf("Status updated: %s", describeUpdate(update))
	})
	defer unsubscribe()

	_, err = t.SetStatus(ctx.context(), job, status)
	return err
}

func (c *StatusHistoryCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	limit := c.Limit
	if limit <= 0 || limit > tracker.HistoryLimit {
		limit = tracker.HistoryLimit
	}
	updates, err := tracker.New(kv, ctx.Logger).Recent(ctx.context(), limit)
	if err != nil {
		return err
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, updates)
	}
	if len(updates) == 0 {
		ctx.UI.Infof("No status changes yet.")
		return nil
	}

	if ctx.PlainText {
		for _, u := range updates {
			if _, err := fmt.Fprintf(ctx.Out, "%s\t%s\t%s\t%s\t%s\n",
				u.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"), u.JobID, u.JobTitle, u.Company, u.Status); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"when", "id", "job", "status"}, "\t"))
	for _, u := range updates {
		fmt.Fprintln(tw, strings.Join([]string{
			u.UpdatedAt.Local().Format("Jan 2 15:04"),
			u.JobID,
			jobLabel(u),
			string(u.Status),
		}, "\t"))
	}
	return tw.Flush()
}

func describeUpdate(u models.StatusUpdate) string {
	return fmt.Sprintf("%s is now %s", jobLabel(u), u.Status)
}

func jobLabel(u models.StatusUpdate) string {
	switch {
	case u.JobTitle != "" && u.Company != "":
		return u.JobTitle + " at " + u.Company
	case u.JobTitle != "":
		return u.JobTitle
	default:
		return u.JobID
	}
}
