package cmd

import (
	"fmt"

	"github.com/jimezsa/jobtracker/internal/checklist"
)

type ChecklistCmd struct {
	List    ChecklistListCmd    `cmd:"" default:"1" help:"Show every check and whether it passed."`
	Check   ChecklistCheckCmd   `cmd:"" help:"Mark checks as passed."`
	Uncheck ChecklistUncheckCmd `cmd:"" help:"Mark checks as not passed."`
	Reset   ChecklistResetCmd   `cmd:"" help:"Clear every check."`
}

type ChecklistListCmd struct{}

type ChecklistCheckCmd struct {
	IDs []string `arg:"" name:"id" help:"Check ids."`
}

type ChecklistUncheckCmd struct {
	IDs []string `arg:"" name:"id" help:"Check ids."`
}

type ChecklistResetCmd struct{}

type ShipCmd struct{}

type checklistRow struct {
	checklist.Item
	Passed bool `json:"passed"`
}

func openChecklist(ctx *Context) (*checklist.Checklist, error) {
	kv, err := ctx.Store()
	if err != nil {
		return nil, err
	}
	return checklist.New(kv), nil
}

func (c *ChecklistListCmd) Run(ctx *Context) error {
	list, err := openChecklist(ctx)
	if err != nil {
		return err
	}
	results, err := list.Load(ctx.context())
	if err != nil {
		return err
	}

	rows := make([]checklistRow, 0, len(checklist.Items))
	passed := 0
	for _, item := range checklist.Items {
		rows = append(rows, checklistRow{Item: item, Passed: results[item.ID]})
		if results[item.ID] {
			passed++
		}
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, rows)
	}

	for _, row := range rows {
		mark := "[ ]"
		if row.Passed {
			mark = "[x]"
		}
		if ctx.PlainText {
			fmt.Fprintf(ctx.Out, "%s\t%t\t%s\n", row.ID, row.Passed, row.Label)
			continue
		}
		fmt.Fprintf(ctx.Out, "%s %-20s %s\n", mark, row.ID, row.Label)
		if ctx.Verbose {
			fmt.Fprintf(ctx.Out, "    %s\n", row.Tooltip)
		}
	}
	if !ctx.PlainText {
		fmt.Fprintf(ctx.Out, "\nTests Passed: %d / %d\n", passed, len(checklist.Items))
	}
	return nil
}

func (c *ChecklistCheckCmd) Run(ctx *Context) error {
	return setChecks(ctx, c.IDs, true)
}

func (c *ChecklistUncheckCmd) Run(ctx *Context) error {
	return setChecks(ctx, c.IDs, false)
}

func setChecks(ctx *Context, ids []string, passed bool) error {
	list, err := openChecklist(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := list.Set(ctx.context(), id, passed); err != nil {
			return err
		}
	}
	count, err := list.PassedCount(ctx.context())
	if err != nil {
		return err
	}
	ctx.UI.Infof("Tests Passed: %d / %d", count, len(checklist.Items))
	return nil
}

func (c *ChecklistResetCmd) Run(ctx *Context) error {
	list, err := openChecklist(ctx)
	if err != nil {
		return err
	}
	if err := list.Reset(ctx.context()); err != nil {
		return err
	}
	ctx.UI.Successf("Checklist reset")
	return nil
}

func (c *ShipCmd) Run(ctx *Context) error {
	list, err := openChecklist(ctx)
	if err != nil {
		return err
	}
	ok, err := list.AllPassed(ctx.context())
	if err != nil {
		return err
	}
	if !ok {
		count, err := list.PassedCount(ctx.context())
		if err != nil {
			return err
		}
		return fmt.Errorf("ship locked: %d of %d checks passed; run jobtracker checklist", count, len(checklist.Items))
	}
	ctx.UI.Successf("All %d checks passed. Ready to ship.", len(checklist.Items))
	return nil
}
