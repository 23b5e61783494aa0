package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jimezsa/jobtracker/internal/checklist"
)

type WatchCmd struct {
	Count int `help:"Exit after this many changes (0 = until interrupted)."`
}

type watchEvent struct {
	Key    string    `json:"key"`
	At     time.Time `json:"at"`
	Passed *int      `json:"checksPassed,omitempty"`
}

func (c *WatchCmd) Run(ctx *Context) error {
	notifier, err := ctx.Notifier()
	if err != nil {
		return err
	}
	if notifier == nil {
		return fmt.Errorf("store backend %q has no change feed; use --store redis", ctx.StoreOptions.Backend)
	}

	watchCtx, cancel := context.WithCancel(ctx.context())
	defer cancel()
	changes, err := notifier.Subscribe(watchCtx)
	if err != nil {
		return err
	}
	ctx.Logger.Debug().Msg("watching store changes")
	if !ctx.JSONOutput {
		ctx.UI.Infof("Watching for changes. Press Ctrl+C to stop.")
	}

	list := checklist.New(ctx.kv)
	seen := 0
	for {
		select {
		case <-watchCtx.Done():
			return nil
		case key, ok := <-changes:
			if !ok {
				return nil
			}
			if err := c.report(ctx, list, key); err != nil {
				return err
			}
			seen++
			if c.Count > 0 && seen >= c.Count {
				return nil
			}
		}
	}
}

func (c *WatchCmd) report(ctx *Context, list *checklist.Checklist, key string) error {
	event := watchEvent{Key: key, At: ctx.now()}
	if key == checklist.Key {
		count, err := list.PassedCount(ctx.context())
		if err != nil {
			return err
		}
		event.Passed = &count
	}

	if ctx.JSONOutput {
		return writeJSON(ctx.Out, event)
	}
	line := fmt.Sprintf("%s  %s", event.At.Local().Format("15:04:05"), key)
	if event.Passed != nil {
		line += fmt.Sprintf("  (Tests Passed: %d / %d)", *event.Passed, len(checklist.Items))
	}
	_, err := fmt.Fprintln(ctx.Out, line)
	return err
}
