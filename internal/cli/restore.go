package cli

import (
	"fmt"
	"log/slog"
)

type restoreCommand struct {
	cli *CLI

	Args struct {
		IDOrPath string `positional-arg-name:"ID-OR-PATH" required:"yes"`
	} `positional-args:"yes"`
}

func (c *restoreCommand) Execute([]string) error {
	slog.Debug("cli.restore started", "selector", c.Args.IDOrPath)
	defer slog.Debug("cli.restore finished")

	entry, err := c.cli.engine.Restore(c.Args.IDOrPath)
	if err != nil {
		return err
	}

	fmt.Printf("restored %q\n", entry.OriginalPath)
	return nil
}
