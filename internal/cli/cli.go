package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PotatoMaaan/trashctl/internal/config"
	"github.com/PotatoMaaan/trashctl/internal/env"
	"github.com/PotatoMaaan/trashctl/internal/trash"
	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"
)

type Option struct {
	Config string `long:"config" description:"Path to config file" default:""`

	Meta MetaOption `group:"Meta Options"`
}

type MetaOption struct {
	Version bool `short:"V" long:"version" description:"Show version"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string
	engine  *trash.Engine
}

var runID = sync.OnceValue(func() string {
	return xid.New().String()
})

func Run(v Version) error {
	var opt Option
	cli := &CLI{version: v}

	parser := flags.NewParser(&opt, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = v.AppName
	parser.Usage = "[OPTIONS] <command>"

	register := func(name, short, long string, cmd flags.Commander) {
		if _, err := parser.AddCommand(name, short, long, cmd); err != nil {
			panic(err)
		}
	}

	register("put", "Move files into the trash", "", &putCommand{cli: cli})
	register("list", "List trashed entries", "", &listCommand{cli: cli})
	register("list-trashes", "List all trash directories", "", &listTrashesCommand{cli: cli})
	register("restore", "Restore an entry to its original location", "", &restoreCommand{cli: cli})
	register("remove", "Permanently delete an entry from the trash", "", &removeCommand{cli: cli})
	register("clear", "Permanently delete all entries", "", &clearCommand{cli: cli})
	register("prune", "Clean up inconsistent trash state", "", &pruneCommand{cli: cli})
	register("debug", "View debug logs", "", &debugCommand{})

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		switch cmd.(type) {
		case *debugCommand:
			return cmd.Execute(args)
		}
		if err := cli.init(opt); err != nil {
			return err
		}
		defer slog.Debug("command finished\n\n\n")
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		if opt.Meta.Version {
			fmt.Fprint(os.Stdout, v.Print())
			return nil
		}
		return err
	}
	return nil
}

// init sets up logging, loads the config and builds the engine. Runs once
// per invocation, after flag parsing and before the command body.
func (c *CLI) init(opt Option) error {
	c.option = opt
	c.runID = runID()

	logDir := filepath.Dir(env.TRASHCTL_LOG_PATH)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
	}

	var w io.Writer
	if file, err := os.OpenFile(env.TRASHCTL_LOG_PATH, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		w = file
	} else {
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           log.DebugLevel,
	})
	slog.SetDefault(slog.New(logger.With("run_id", c.runID)))

	slog.Debug("command started",
		"version", c.version.Version,
		"revision", c.version.Revision,
		"buildDate", c.version.BuildDate,
	)

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		return err
	}
	c.config = cfg

	engine, err := trash.NewEngine(trash.Config{
		HomeTrashDir: cfg.Core.TrashDir,
		HomeFallback: cfg.Core.HomeFallback,
		Filters:      cfg.Filters,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize trash engine: %w", err)
	}
	c.engine = engine

	return nil
}
