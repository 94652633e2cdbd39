package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/PotatoMaaan/trashctl/internal/debug"
	"github.com/k1LoW/duration"
)

type removeCommand struct {
	cli *CLI

	Args struct {
		IDOrPath string `positional-arg-name:"ID-OR-PATH" required:"yes"`
	} `positional-args:"yes"`
}

func (c *removeCommand) Execute([]string) error {
	slog.Debug("cli.remove started", "selector", c.Args.IDOrPath)
	defer slog.Debug("cli.remove finished")

	entry, err := c.cli.engine.Remove(c.Args.IDOrPath)
	if err != nil {
		return err
	}

	if entry.Orphaned {
		fmt.Printf("removed %q (orphaned entry, only one half was present)\n", entry.Name)
	} else {
		fmt.Printf("removed %q\n", entry.OriginalPath)
	}
	return nil
}

type clearCommand struct {
	cli *CLI

	OlderThan string `long:"older-than" description:"Only clear entries deleted longer ago than this (e.g. \"30 days\")"`
	DryRun    bool   `short:"n" long:"dry-run" description:"Only print what would be removed"`
}

func (c *clearCommand) Execute([]string) error {
	slog.Debug("cli.clear started", "olderThan", c.OlderThan, "dryRun", c.DryRun)
	defer slog.Debug("cli.clear finished")

	var cutoff time.Time
	if c.OlderThan != "" {
		d, err := duration.Parse(c.OlderThan)
		if err != nil {
			return fmt.Errorf("invalid --older-than value %q: %w", c.OlderThan, err)
		}
		cutoff = time.Now().Add(-d)
	}

	removed, errs := c.cli.engine.Clear(cutoff, c.DryRun)
	printWarnings(errs)

	for _, entry := range removed {
		label := entry.OriginalPath
		if label == "" {
			label = entry.Name
		}
		if c.DryRun {
			fmt.Printf("would remove %q\n", label)
		} else if c.cli.config.Core.Verbose {
			fmt.Printf("removed %q\n", label)
		}
	}

	if !c.DryRun {
		fmt.Printf("cleared %d entries\n", len(removed))
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to clear %d entries", len(errs))
	}
	return nil
}

type pruneCommand struct {
	cli *CLI

	Args struct {
		Target string `positional-arg-name:"TARGET" required:"yes" description:"What to prune (orphans)"`
	} `positional-args:"yes"`
}

func (c *pruneCommand) Execute([]string) error {
	slog.Debug("cli.prune started", "target", c.Args.Target)
	defer slog.Debug("cli.prune finished")

	if c.Args.Target != "orphans" {
		return fmt.Errorf("unknown prune target: %s", c.Args.Target)
	}

	removed, errs := c.cli.engine.PruneOrphans()
	printWarnings(errs)

	for _, path := range removed {
		fmt.Printf("removed orphaned sidecar %q\n", path)
	}
	fmt.Printf("pruned %d orphaned sidecars\n", len(removed))

	if len(errs) > 0 {
		return fmt.Errorf("failed to prune %d sidecars", len(errs))
	}
	return nil
}

type debugCommand struct {
	Live bool `long:"live" description:"Only show log lines written from now on"`
}

func (c *debugCommand) Execute([]string) error {
	return debug.Logs(os.Stdout, c.Live)
}
