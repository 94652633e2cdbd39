package main

import (
	"fmt"
	"os"

	"github.com/PotatoMaaan/trashctl/internal/cli"
)

const appName = "trashctl"

// overwritten at build time via ldflags
var (
	version   = "develop"
	revision  = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := cli.Run(cli.Version{
		AppName:   appName,
		Version:   version,
		Revision:  revision,
		BuildDate: buildDate,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}
