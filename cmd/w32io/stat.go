package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertwitch/w32io/internal/filetime"
	"github.com/desertwitch/w32io/internal/w32file"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type statReport struct {
	Path       string   `yaml:"path"`
	Attributes []string `yaml:"attributes"`
	Size       int64    `yaml:"size"`
	Created    string   `yaml:"created"`
	Accessed   string   `yaml:"accessed"`
	Written    string   `yaml:"written"`
}

func calendar(t filetime.Ticks) string {
	st, err := filetime.ToSystemTime(t)
	if err != nil {
		return "invalid"
	}

	return st.String()
}

func newStatReport(path string, info w32file.FileInfo) statReport {
	return statReport{
		Path:       path,
		Attributes: info.Attributes.Names(),
		Size:       info.Size,
		Created:    calendar(info.CreationTime),
		Accessed:   calendar(info.LastAccessTime),
		Written:    calendar(info.LastWriteTime),
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("(yaml) %w", err)
	}

	return enc.Close()
}

func writeStatText(w io.Writer, r statReport) {
	fmt.Fprintf(w, "%s\n", r.Path)
	fmt.Fprintf(w, "  Attributes: %s\n", strings.Join(r.Attributes, ", "))
	fmt.Fprintf(w, "  Size:       %s (%d bytes)\n", humanize.IBytes(uint64(r.Size)), r.Size) //nolint:gosec
	fmt.Fprintf(w, "  Created:    %s\n", r.Created)
	fmt.Fprintf(w, "  Accessed:   %s\n", r.Accessed)
	fmt.Fprintf(w, "  Written:    %s\n", r.Written)
}

func newStatCmd(app *App) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "stat PATH...",
		Short: "Show attributes, times and size of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				reports []statReport
				errs    []error
			)

			for _, path := range args {
				info, err := app.fileHandler.GetAttributesEx(path)
				if err != nil {
					errs = append(errs, fmt.Errorf("(stat) %s: %w", path, err))

					continue
				}
				reports = append(reports, newStatReport(path, info))
			}

			if asYAML {
				if err := writeYAML(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					writeStatText(cmd.OutOrStdout(), r)
				}
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")

	return cmd
}
