package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/prefs"
)

type PrefsCmd struct {
	Show  PrefsShowCmd  `cmd:"" default:"1" help:"Print saved preferences."`
	Set   PrefsSetCmd   `cmd:"" help:"Update preferences; unset flags keep their value."`
	Reset PrefsResetCmd `cmd:"" help:"Restore default preferences."`
}

type PrefsShowCmd struct{}

type PrefsSetCmd struct {
	Keywords   *string  `help:"Comma-separated role keywords."`
	Locations  []string `help:"Preferred locations (comma-separated)." sep:","`
	Modes      []string `name:"modes" help:"Preferred work modes: Remote, Hybrid, Onsite." sep:","`
	Experience *string  `help:"Experience level: Fresher, 0-1, 1-3, 3-5, or empty for any."`
	Skills     *string  `help:"Comma-separated skills."`
	MinScore   *int     `name:"min-score" help:"Threshold for --only-matches (0-100)."`

	ClearLocations bool `help:"Remove every preferred location."`
	ClearModes     bool `help:"Remove every preferred mode."`
}

type PrefsResetCmd struct{}

func (c *PrefsShowCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	p, err := prefs.New(kv, ctx.Logger).Load(ctx.context())
	if err != nil {
		return err
	}
	return printPrefs(ctx, p)
}

func (c *PrefsSetCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	prefStore := prefs.New(kv, ctx.Logger)
	current, err := prefStore.Load(ctx.context())
	if err != nil {
		return err
	}

	updated := prefs.Apply(current, c.changes())
	if err := prefs.Validate(updated); err != nil {
		return err
	}
	saved, err := prefStore.Save(ctx.context(), updated)
	if err != nil {
		return err
	}
	if !ctx.JSONOutput {
		ctx.UI.Successf("Preferences saved")
	}
	return printPrefs(ctx, saved)
}

func (c *PrefsSetCmd) changes() prefs.Changes {
	changes := prefs.Changes{
		RoleKeywords:    c.Keywords,
		ExperienceLevel: c.Experience,
		Skills:          c.Skills,
		MinMatchScore:   c.MinScore,
	}
	switch {
	case c.ClearLocations:
		changes.PreferredLocations = &[]string{}
	case c.Locations != nil:
		changes.PreferredLocations = &c.Locations
	}
	switch {
	case c.ClearModes:
		changes.PreferredMode = &[]string{}
	case c.Modes != nil:
		changes.PreferredMode = &c.Modes
	}
	return changes
}

func (c *PrefsResetCmd) Run(ctx *Context) error {
	kv, err := ctx.Store()
	if err != nil {
		return err
	}
	if err := prefs.New(kv, ctx.Logger).Reset(ctx.context()); err != nil {
		return err
	}
	ctx.UI.Successf("Preferences reset to defaults")
	return nil
}

func printPrefs(ctx *Context, p models.Preferences) error {
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, p)
	}
	rows := [][2]string{
		{"Role keywords", p.RoleKeywords},
		{"Locations", strings.Join(p.PreferredLocations, ", ")},
		{"Modes", strings.Join(p.PreferredMode, ", ")},
		{"Experience", p.ExperienceLevel},
		{"Skills", p.Skills},
		{"Min match score", fmt.Sprintf("%d", p.MinMatchScore)},
	}
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = "-"
		}
		if ctx.PlainText {
			if _, err := fmt.Fprintf(ctx.Out, "%s\t%s\n", row[0], row[1]); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(ctx.Out, "%-16s %s\n", row[0]+":", value); err != nil {
			return err
		}
	}
	if p.IsEmpty() && !ctx.PlainText {
		ctx.UI.Warnf("No preferences set; match scores only reflect recency and the apply link.")
	}
	return nil
}
