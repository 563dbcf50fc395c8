package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/w32file"
	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

// hashFile returns the blake3 checksum of a file read through a handle.
func hashFile(ctx context.Context, fileHandler *w32file.Handler, path string) ([]byte, error) {
	handle, err := fileHandler.Create(path, schema.GenericRead, schema.ShareRead, schema.OpenExisting, schema.FlagSequentialScan)
	if err != nil {
		return nil, fmt.Errorf("(hash) %w", err)
	}
	defer fileHandler.Close(handle) //nolint:errcheck

	hasher := blake3.New()

	if _, err := io.Copy(hasher, &handleReader{ctx: ctx, fileHandler: fileHandler, handle: handle}); err != nil {
		return nil, fmt.Errorf("(hash) %s: %w", path, err)
	}

	return hasher.Sum(nil), nil
}

// sumFiles hashes paths concurrently and returns the checksums in the order
// of paths.
func sumFiles(ctx context.Context, fileHandler *w32file.Handler, paths []string, limit int) ([][]byte, error) {
	sums := make([][]byte, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, path := range paths {
		eg.Go(func() error {
			sum, err := hashFile(egCtx, fileHandler, path)
			if err != nil {
				return err
			}
			sums[i] = sum

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return sums, nil
}

func newSumCmd(app *App) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "sum PATH...",
		Short: "Print blake3 checksums of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs <= 0 {
				jobs = runtime.NumCPU()
			}

			sums, err := sumFiles(cmd.Context(), app.fileHandler, args, jobs)
			if err != nil {
				return fmt.Errorf("(sum) %w", err)
			}

			for i, sum := range sums {
				fmt.Fprintf(cmd.OutOrStdout(), "%x  %s\n", sum, args[i])
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files hashed at once (default: number of CPUs)")

	return cmd
}
