package cli

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/PotatoMaaan/trashctl/internal/trash"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type listCommand struct {
	cli *CLI

	Simple        bool   `short:"s" long:"simple" description:"Tab-separated output for easy parsing"`
	TrashLocation bool   `short:"t" long:"trash-location" description:"Also display the trash directory holding each entry"`
	Reverse       bool   `short:"r" long:"reverse" description:"Reverse the sorting"`
	Sort          string `long:"sort" description:"Sort entries by this key" choice:"path" choice:"date" choice:"trash" default:"path"`
}

func (c *listCommand) Execute([]string) error {
	slog.Debug("cli.list started")
	defer slog.Debug("cli.list finished")

	entries, warns := c.cli.engine.List()
	printWarnings(warns)

	switch c.Sort {
	case "date":
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].DeletedAt.Before(entries[j].DeletedAt)
		})
	case "trash":
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Dir.Root < entries[j].Dir.Root
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].OriginalPath < entries[j].OriginalPath
		})
	}
	if c.Reverse {
		lo.Reverse(entries)
	}

	header := []string{"ID", "Deleted at", "Size", "Original location"}
	rows := lo.Map(entries, func(e *trash.Entry, _ int) []string {
		return []string{
			e.ID,
			humanize.Time(e.DeletedAt),
			humanize.Bytes(uint64(e.Size)),
			e.OriginalPath,
		}
	})

	if c.TrashLocation {
		header = append(header[:3], "Trash location", header[3])
		for i, e := range entries {
			rows[i] = append(rows[i][:3], e.Dir.Root, rows[i][3])
		}
	}

	if c.Simple {
		for _, row := range rows {
			fmt.Println(strings.Join(row, "\t"))
		}
		return nil
	}

	renderTable(header, rows)
	return nil
}

type listTrashesCommand struct {
	cli *CLI
}

func (c *listTrashesCommand) Execute([]string) error {
	dirs := c.cli.engine.Trashes()

	rows := lo.Map(dirs, func(d *trash.TrashDir, _ int) []string {
		return []string{
			d.Root,
			d.Topdir,
			strconv.FormatUint(d.Device, 10),
			strconv.FormatBool(d.Admin),
			strconv.FormatBool(d.Home),
		}
	})

	renderTable([]string{"Path", "Device root", "Device ID", "Is admin created", "Is home trash"}, rows)
	return nil
}

func renderTable(header []string, rows [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.AppendBulk(rows)
	table.Render()
}

func printWarnings(warns []error) {
	for _, warn := range warns {
		color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %v\n", warn)
	}
}
