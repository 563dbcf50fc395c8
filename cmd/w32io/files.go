package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/w32file"
	"github.com/desertwitch/w32io/internal/winerr"
	"github.com/spf13/cobra"
)

func catFile(ctx context.Context, fileHandler *w32file.Handler, path string) error {
	src, err := fileHandler.Create(path, schema.GenericRead, schema.ShareRead|schema.ShareWrite, schema.OpenExisting, schema.FlagSequentialScan)
	if err != nil {
		return fmt.Errorf("(cat) %w", err)
	}
	defer fileHandler.Close(src) //nolint:errcheck

	dst, err := fileHandler.StdHandle(schema.StdOutputHandle)
	if err != nil {
		return fmt.Errorf("(cat) %w", err)
	}

	if _, err := io.Copy(
		&handleWriter{ctx: ctx, fileHandler: fileHandler, handle: dst},
		&handleReader{ctx: ctx, fileHandler: fileHandler, handle: src},
	); err != nil {
		return fmt.Errorf("(cat) %s: %w", path, err)
	}

	return nil
}

func newCatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cat PATH...",
		Short: "Write files to standard output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := catFile(cmd.Context(), app.fileHandler, path); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func copyFile(ctx context.Context, fileHandler *w32file.Handler, src string, dst string, noClobber bool, verify bool) error {
	if err := fileHandler.Copy(ctx, src, dst, noClobber); err != nil {
		return fmt.Errorf("(copy) %w", err)
	}

	if fileHandler.LastError() == winerr.AlreadyExists {
		slog.Info("Overwrote existing destination.", "dst", dst)
	}

	if !verify {
		return nil
	}

	srcSum, err := hashFile(ctx, fileHandler, src)
	if err != nil {
		return fmt.Errorf("(copy-verify) %w", err)
	}

	dstSum, err := hashFile(ctx, fileHandler, dst)
	if err != nil {
		return fmt.Errorf("(copy-verify) %w", err)
	}

	if !bytes.Equal(srcSum, dstSum) {
		return fmt.Errorf("(copy-verify) %w: %x != %x", ErrVerifyFailed, srcSum, dstSum)
	}

	slog.Debug("Verified copy.", "src", src, "dst", dst, "blake3", fmt.Sprintf("%x", dstSum))

	return nil
}

func newCopyCmd(app *App) *cobra.Command {
	var (
		noClobber bool
		verify    bool
	)

	cmd := &cobra.Command{
		Use:   "copy SRC DST",
		Short: "Copy a file, keeping its permissions and times",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return copyFile(cmd.Context(), app.fileHandler, args[0], args[1], noClobber, verify)
		},
	}

	cmd.Flags().BoolVar(&noClobber, "no-clobber", false, "fail if the destination exists")
	cmd.Flags().BoolVar(&verify, "verify", false, "compare blake3 checksums after copying")

	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move SRC DST",
		Short: "Rename a file, copying across filesystems",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.fileHandler.Move(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("(move) %w", err)
			}

			return nil
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PATH...",
		Short: "Delete files not held open without delete sharing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var errs []error

			for _, path := range args {
				if err := app.fileHandler.Delete(path); err != nil {
					errs = append(errs, fmt.Errorf("(rm) %s: %w", path, err))
				}
			}

			return errors.Join(errs...)
		},
	}
}
