package debug

import (
	"fmt"
	"io"
	"os"

	"github.com/PotatoMaaan/trashctl/internal/env"
	"github.com/mattn/go-isatty"
	"github.com/nxadm/tail"
)

// Logs writes the debug log to w. On a terminal it keeps following the
// file; live skips the existing contents and shows only new lines.
func Logs(w io.Writer, live bool) error {
	shouldFollow := isatty.IsTerminal(os.Stdout.Fd())
	tailConfig := tail.Config{
		ReOpen: shouldFollow,
		Follow: shouldFollow,
		Poll:   true,
		Logger: tail.DiscardingLogger,
	}
	if live {
		tailConfig.Location = &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekEnd,
		}
	}
	t, err := tail.TailFile(env.TRASHCTL_LOG_PATH, tailConfig)
	if err != nil {
		return err
	}
	for line := range t.Lines {
		fmt.Fprintln(w, line.Text)
	}
	return nil
}
