package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`
	Store   string `help:"Store backend: memory, sqlite, redis, postgres." enum:",memory,sqlite,redis,postgres" default:""`
	DSN     string `name:"dsn" help:"Store location: sqlite file path, redis:// or postgres:// URL."`
	Catalog string `help:"Job catalog: builtin, a .json/.json5/.html file or an http(s) URL."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version   VersionCmd   `cmd:"" help:"Print version."`
	Config    ConfigCmd    `cmd:"" help:"Manage configuration."`
	Prefs     PrefsCmd     `cmd:"" help:"Show or edit matching preferences."`
	Jobs      JobsCmd      `cmd:"" help:"Browse the job catalog."`
	Saved     SavedCmd     `cmd:"" help:"Manage saved jobs."`
	Status    StatusCmd    `cmd:"" help:"Track application status."`
	Digest    DigestCmd    `cmd:"" help:"Generate and view the daily digest."`
	Checklist ChecklistCmd `cmd:"" help:"Manual release checklist."`
	Ship      ShipCmd      `cmd:"" help:"Fail unless every checklist item has passed."`
	Catalogs  CatalogCmd   `cmd:"" name:"catalog" help:"Inspect or import job catalogs."`
	Watch     WatchCmd     `cmd:"" help:"Print store changes as they happen."`
}

func NewCLI() *CLI {
	return &CLI{}
}
