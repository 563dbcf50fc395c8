package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertwitch/w32io/internal/w32file"
	"github.com/desertwitch/w32io/internal/winerr"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type findEntry struct {
	Name       string   `yaml:"name"`
	Attributes []string `yaml:"attributes"`
	Size       int64    `yaml:"size"`
	Written    string   `yaml:"written"`
}

func newFindEntry(data *w32file.FindData) findEntry {
	return findEntry{
		Name:       data.Name(),
		Attributes: data.Attributes.Names(),
		Size:       data.Size(),
		Written:    calendar(data.LastWriteTime.Ticks()),
	}
}

// findAll collects every entry matching pattern. No match at all is not an
// error here.
func findAll(fileHandler *w32file.Handler, pattern string) ([]findEntry, error) {
	handle, data, err := fileHandler.FindFirst(pattern)
	if errors.Is(err, winerr.FileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("(find) %w", err)
	}
	defer fileHandler.FindClose(handle) //nolint:errcheck

	entries := []findEntry{newFindEntry(&data)}

	for {
		data, err := fileHandler.FindNext(handle)
		if errors.Is(err, winerr.NoMoreFiles) {
			return entries, nil
		}
		if err != nil {
			return entries, fmt.Errorf("(find) %w", err)
		}
		entries = append(entries, newFindEntry(&data))
	}
}

func newFindCmd(app *App) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "find PATTERN",
		Short: "List directory entries matching a wildcard pattern",
		Long: `find lists the entries of a directory whose names match the last
component of PATTERN, which may contain '*' and '?' wildcards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := findAll(app.fileHandler, args[0])
			if err != nil {
				return err
			}

			if asYAML {
				return writeYAML(cmd.OutOrStdout(), entries)
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%-10s %s  %-24s %s\n",
					humanize.IBytes(uint64(e.Size)), //nolint:gosec
					e.Written,
					strings.Join(e.Attributes, ","),
					e.Name,
				)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")

	return cmd
}
