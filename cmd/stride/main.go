package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/stridehq/stride/internal/cache"
	"github.com/stridehq/stride/internal/cli"
	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/constants"
	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/logger"
	"github.com/stridehq/stride/internal/storage"
	"github.com/stridehq/stride/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path. A .json suffix selects the JSON file store; anything else is SQLite." type:"string" default:"~/.config/stride/stride.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize stride storage."`
	Challenge cli.ChallengeCmd `cmd:"" help:"Manage challenges."`
	Checkin   cli.CheckinCmd   `cmd:"" help:"Check in a goal for a day."`
	Status    cli.StatusCmd    `cmd:"" help:"Show current challenge progress."`
	Snapshot  cli.SnapshotCmd  `cmd:"" help:"Export or import the full local state."`
	Sync      cli.SyncCmd      `cmd:"" help:"Synchronize with the remote service."`
	Serve     cli.ServeCmd     `cmd:"" help:"Run the reference sync server."`
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Offline-first habit challenge tracker with sync"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	apperrors.Fatal(err)

	path := expandPath(CLI.Config)
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: filepath.Dir(path),
	}); err != nil {
		apperrors.Fatal(err)
	}

	var store storage.Provider
	if strings.HasSuffix(path, ".json") {
		store = storage.NewJSONStore(path)
	} else {
		store = storage.NewSQLiteStore(path)
	}

	appCtx := &cli.Context{
		Store:   store,
		Cache:   cache.New(5 * time.Minute),
		Stamper: utils.NewStamper(),
		Cfg:     cfg,
	}

	// Load the store before running the command (init handles its own
	// lifecycle, serve opens a separate store).
	selected := ""
	if ctx.Selected() != nil {
		selected = ctx.Selected().Name
	}
	if selected != "init" && selected != "serve" {
		apperrors.Fatal(store.Load())
	}
	defer store.Close()

	apperrors.Fatal(ctx.Run(appCtx))
}
