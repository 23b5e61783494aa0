// Package checklist tracks the manual release checks that gate shipping.
package checklist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jimezsa/jobtracker/internal/store"
)

// Key is the slot holding testId -> passed.
const Key = "jobTrackerTestStatus"

var ErrUnknownItem = errors.New("unknown checklist item")

// Item is one manual check.
type Item struct {
	ID      string `json:"id" yaml:"id"`
	Label   string `json:"label" yaml:"label"`
	Tooltip string `json:"tooltip" yaml:"tooltip"`
}

// Items is the fixed list of checks, in display order.
var Items = []Item{
	{ID: "prefs-persist", Label: "Preferences persist after restart", Tooltip: "Run prefs set, then prefs show in a new process, verify they remain"},
	{ID: "match-score", Label: "Match score calculates correctly", Tooltip: "Set preferences with keywords, check jobs list shows correct match scores"},
	{ID: "show-matches-toggle", Label: `"Only matches" filter works`, Tooltip: "Run jobs list --only-matches, verify jobs below the threshold are hidden"},
	{ID: "save-persist", Label: "Saved job persists after restart", Tooltip: "Save a job, run saved list in a new process, verify it remains"},
	{ID: "apply-new-tab", Label: "Apply link is shown", Tooltip: "Run jobs show <id>, verify the apply URL is printed"},
	{ID: "status-persist", Label: "Status update persists after restart", Tooltip: "Change a job status, run status get, verify status remains"},
	{ID: "status-filter", Label: "Status filter works correctly", Tooltip: "Run jobs list --status, verify only jobs with that status show"},
	{ID: "digest-top10", Label: "Digest generates top 10 by score", Tooltip: "Generate a digest, verify the 10 highest match score jobs are shown"},
	{ID: "digest-persist", Label: "Digest persists for the day", Tooltip: "Generate a digest, run digest show, verify the same digest loads"},
	{ID: "no-console-errors", Label: "No errors on main commands", Tooltip: "Run every command with --verbose, verify no error lines are logged"},
}

// Lookup returns the item with id.
func Lookup(id string) (Item, bool) {
	for _, item := range Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Checklist reads and writes pass marks.
type Checklist struct {
	kv store.Store

	mu sync.Mutex
}

func New(kv store.Store) *Checklist {
	return &Checklist{kv: kv}
}

// Load returns the stored marks. Missing or malformed content reads as empty.
func (c *Checklist) Load(ctx context.Context) (map[string]bool, error) {
	var status map[string]bool
	err := store.ReadJSON(ctx, c.kv, Key, &status)
	if store.IsAbsent(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}
	if status == nil {
		status = map[string]bool{}
	}
	return status, nil
}

// Set marks the item id as passed or not.
func (c *Checklist) Set(ctx context.Context, id string, passed bool) error {
	if _, ok := Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	status, err := c.Load(ctx)
	if err != nil {
		return err
	}
	status[id] = passed
	if err := store.WriteJSON(ctx, c.kv, Key, status); err != nil {
		return fmt.Errorf("save checklist: %w", err)
	}
	return nil
}

func (c *Checklist) Passed(ctx context.Context, id string) (bool, error) {
	status, err := c.Load(ctx)
	if err != nil {
		return false, err
	}
	return status[id], nil
}

// PassedCount counts passed known items; stray ids in the slot are ignored.
func (c *Checklist) PassedCount(ctx context.Context) (int, error) {
	status, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range Items {
		if status[item.ID] {
			count++
		}
	}
	return count, nil
}

func (c *Checklist) AllPassed(ctx context.Context) (bool, error) {
	count, err := c.PassedCount(ctx)
	if err != nil {
		return false, err
	}
	return count == len(Items), nil
}

// Reset clears every mark.
func (c *Checklist) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("reset checklist: %w", err)
	}
	return nil
}
