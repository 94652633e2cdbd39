package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

type putCommand struct {
	cli *CLI

	Verbose bool `short:"v" long:"verbose" description:"Explain what is being done"`
	Force   bool `short:"f" long:"force" description:"Ignore nonexistent files"`

	Args struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

// Execute trashes each argument in turn. One failure does not abort the
// remaining files; every failure is reported with its path.
func (c *putCommand) Execute([]string) error {
	slog.Debug("cli.put started")
	defer slog.Debug("cli.put finished")

	var failed int
	for _, file := range c.Args.Files {
		entry, err := c.cli.engine.Put(file)
		if err != nil {
			if c.Force && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", c.cli.version.AppName, err)
			continue
		}

		if c.Verbose || c.cli.config.Core.Verbose {
			if entry.IsDir {
				fmt.Printf("trashed directory %q (id %s)\n", entry.OriginalPath, entry.ID)
			} else {
				fmt.Printf("trashed %q (id %s)\n", entry.OriginalPath, entry.ID)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to trash %d of %d files", failed, len(c.Args.Files))
	}
	return nil
}
