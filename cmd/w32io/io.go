package main

import (
	"context"
	"io"

	"github.com/desertwitch/w32io/internal/handles"
	"github.com/desertwitch/w32io/internal/w32file"
)

// handleReader reads from a handle as an [io.Reader]. A cancelled read is
// reported as the context error instead of end of file.
//
//nolint:containedctx
type handleReader struct {
	ctx         context.Context
	fileHandler *w32file.Handler
	handle      handles.Handle
}

func (r *handleReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n, err := r.fileHandler.Read(r.ctx, r.handle, p)
	if err != nil {
		return 0, err
	}

	if n == 0 {
		if err := r.ctx.Err(); err != nil {
			return 0, err
		}

		return 0, io.EOF
	}

	return n, nil
}

// handleWriter writes to a handle as an [io.Writer].
//
//nolint:containedctx
type handleWriter struct {
	ctx         context.Context
	fileHandler *w32file.Handler
	handle      handles.Handle
}

func (w *handleWriter) Write(p []byte) (int, error) {
	var written int

	for written < len(p) {
		n, err := w.fileHandler.Write(w.ctx, w.handle, p[written:])
		if err != nil {
			return written, err
		}

		if n == 0 {
			if err := w.ctx.Err(); err != nil {
				return written, err
			}

			return written, io.ErrShortWrite
		}

		written += n
	}

	return written, nil
}
