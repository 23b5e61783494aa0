package cmd

import (
	"fmt"

	"github.com/jimezsa/jobtracker/internal/tracker"
)

type SavedCmd struct {
	List   SavedListCmd   `cmd:"" default:"1" help:"List saved job ids."`
	Add    SavedAddCmd    `cmd:"" help:"Save jobs."`
	Remove SavedRemoveCmd `cmd:"" help:"Unsave jobs."`
	Toggle SavedToggleCmd `cmd:"" help:"Flip the saved state of a job."`
}

type SavedListCmd struct{}

type SavedAddCmd struct {
	IDs []string `arg:"" name:"id" help:"Job ids."`
}

type SavedRemoveCmd struct {
	IDs []string `arg:"" name:"id" help:"Job ids."`
}

type SavedToggleCmd struct {
	ID string `arg:"" help:"Job id."`
}

func (c *SavedListCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	ids, err := tracker.NewSaved(kv, ctx.Logger).IDs(ctx.context())
	if err != nil {
		return err
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, ids)
	}
	if len(ids) == 0 {
		ctx.UI.Infof("No saved jobs yet. Save one with: jobtracker saved add <id>")
		return nil
	}

	cat, err := ctx.Catalog()
	if err != nil {
		return err
	}
	for _, id := range ids {
		line := id
		if job, ok := cat.Find(id); ok {
			line = fmt.Sprintf("%s\t%s\t%s", id, job.Title, job.Company)
		}
		if _, err := fmt.Fprintln(ctx.Out, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *SavedAddCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	warnUnknownIDs(ctx, c.IDs)
	saved := tracker.NewSaved(kv, ctx.Logger)
	for _, id := range c.IDs {
		if err := saved.Save(ctx.context(), id); err != nil {
			return err
		}
		ctx.UI.Successf("Saved %s", id)
	}
	return nil
}

func (c *SavedRemoveCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	saved := tracker.NewSaved(kv, ctx.Logger)
	for _, id := range c.IDs {
		if err := saved.Remove(ctx.context(), id); err != nil {
			return err
		}
		ctx.UI.Successf("Removed %s", id)
	}
	return nil
}

func (c *SavedToggleCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	warnUnknownIDs(ctx, []string{c.ID})
	isSaved, err := tracker.NewSaved(kv, ctx.Logger).Toggle(ctx.context(), c.ID)
	if err != nil {
		return err
	}
	if isSaved {
		ctx.UI.Successf("Saved %s", c.ID)
	} else {
		ctx.UI.Successf("Removed %s", c.ID)
	}
	return nil
}

// warnUnknownIDs flags ids the catalog does not know. Saving them is still
// allowed; the stored set has no referential integrity.
func warnUnknownIDs(ctx *Context, ids []string) {
	cat, err := ctx.Catalog()
	if err != nil {
		ctx.Logger.Debug().Err(err).Msg("catalog unavailable for id check")
		return
	}
	for _, id := range ids {
		if _, ok := cat.Find(id); !ok {
			ctx.UI.Warnf("%s is not in catalog %s", id, cat.Source())
		}
	}
}
