package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jimezsa/jobtracker/internal/cmd"
	"github.com/jimezsa/jobtracker/internal/config"
	"github.com/jimezsa/jobtracker/internal/store"
	"github.com/jimezsa/jobtracker/internal/ui"
	"github.com/rs/zerolog"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run())
}

func run() int {
	cli := cmd.NewCLI()
	applyEnvDefaults(cli)
	versionString := buildVersion()

	parser, err := kong.New(cli,
		kong.Name("jobtracker"),
		kong.Description("Score job postings against your preferences, track applications and build a daily digest."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": versionString},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fallbackUI := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(os.Getenv("JOBTRACKER_COLOR")), false)
		fallbackUI.Errorf("%v", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	colorMode := ui.NormalizeColorMode(cli.Color)
	disableColor := cli.JSON || cli.Plain
	userInterface := ui.New(os.Stdout, os.Stderr, colorMode, disableColor)

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	storeOpts, err := resolveStoreOptions(cli, cfg)
	if err != nil {
		userInterface.Errorf("%v", err)
		return 1
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx := &cmd.Context{
		Out:           os.Stdout,
		Err:           os.Stderr,
		UI:            userInterface,
		Config:        cfg,
		ConfigDir:     configDir,
		Logger:        logger,
		Verbose:       cli.Verbose,
		JSONOutput:    cli.JSON,
		PlainText:     cli.Plain,
		Version:       versionString,
		ColorMode:     colorMode,
		Ctx:           signalCtx,
		StoreOptions:  storeOpts,
		CatalogSource: firstNonEmpty(cli.Catalog, cfg.Catalog),
	}
	defer func() {
		if err := runCtx.Close(); err != nil {
			logger.Warn().Err(err).Msg("close store")
		}
	}()

	if err := kctx.Run(runCtx); err != nil {
		userInterface.Errorf("%v", err)
		return 1
	}
	return 0
}

// resolveStoreOptions layers flags over config. A sqlite store without a DSN
// lives next to config.json.
func resolveStoreOptions(cli *cmd.CLI, cfg config.Config) (store.Options, error) {
	opts := store.Options{
		Backend: strings.ToLower(firstNonEmpty(cli.Store, cfg.Store, store.BackendSQLite)),
		DSN:     firstNonEmpty(cli.DSN, cfg.DSN),
	}
	if opts.Backend == store.BackendSQLite && opts.DSN == "" {
		path, err := config.DefaultDBPath()
		if err != nil {
			return opts, err
		}
		opts.DSN = path
	}
	return opts, nil
}

func buildVersion() string {
	if commit == "" && date == "" {
		return version
	}
	if commit == "" {
		return fmt.Sprintf("%s (%s)", version, date)
	}
	if date == "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func applyEnvDefaults(cli *cmd.CLI) {
	if envBool("JOBTRACKER_JSON") {
		cli.JSON = true
	}
	if envBool("JOBTRACKER_VERBOSE") {
		cli.Verbose = true
	}
	if value := os.Getenv("JOBTRACKER_COLOR"); value != "" {
		cli.Color = value
	}
}

func envBool(key string) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return false
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
