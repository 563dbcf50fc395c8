package w32file

import (
	"context"
	"log/slog"
	"sync"

	"github.com/desertwitch/w32io/internal/eintr"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/share"
	"github.com/desertwitch/w32io/internal/winerr"
)

// lastStdFD is the highest descriptor of the standard streams.
const lastStdFD = 2

// descriptor is the state shared by all descriptor-backed kinds.
type descriptor struct {
	h        *Handler
	fd       int
	path     string
	access   schema.Access
	share    schema.ShareMode
	attrs    schema.Attributes
	shareID  share.Identity
	hasShare bool
}

// read reads once, retrying on EINTR. An interrupt that ends the retry
// counts as reading nothing rather than as a failure.
func (d *descriptor) read(ctx context.Context, buf []byte) (int, error) {
	if !d.access.CanRead() {
		return 0, winerr.AccessDenied
	}

	n, err := eintr.Do(ctx, func() (int, error) {
		return d.h.unixHandler.Read(d.fd, buf)
	})
	if err != nil {
		if eintr.Interrupted(err) {
			return 0, nil
		}

		return 0, err
	}

	return n, nil
}

// write is the writing counterpart of [descriptor.read].
func (d *descriptor) write(ctx context.Context, buf []byte) (int, error) {
	if !d.access.CanWrite() {
		return 0, winerr.AccessDenied
	}

	n, err := eintr.Do(ctx, func() (int, error) {
		return d.h.unixHandler.Write(d.fd, buf)
	})
	if err != nil {
		if eintr.Interrupted(err) {
			return 0, nil
		}

		return 0, err
	}

	return n, nil
}

// releaseShare gives back the share reference, at most once.
func (d *descriptor) releaseShare() {
	if !d.hasShare {
		return
	}

	d.hasShare = false
	_ = d.h.shares.Release(d.shareID)
}

func (d *descriptor) closeFD() error {
	if err := d.h.unixHandler.Close(d.fd); err != nil {
		slog.Debug("Closing descriptor failed", "fd", d.fd, "path", d.path, "err", err)

		return err
	}

	return nil
}

// consoleResource is a character device, including the standard streams.
type consoleResource struct {
	unsupported
	descriptor
}

func (*consoleResource) Kind() string {
	return "console"
}

func (*consoleResource) FileType() schema.FileType {
	return schema.FileTypeChar
}

func (c *consoleResource) Read(ctx context.Context, buf []byte) (int, error) {
	return c.read(ctx, buf)
}

func (c *consoleResource) Write(ctx context.Context, buf []byte) (int, error) {
	return c.write(ctx, buf)
}

// Close leaves the standard streams open.
func (c *consoleResource) Close() error {
	c.releaseShare()

	if c.fd <= lastStdFD {
		return nil
	}

	return c.closeFD()
}

// pipeResource is either end of an anonymous pipe, or an opened FIFO.
type pipeResource struct {
	unsupported
	descriptor
}

func (*pipeResource) Kind() string {
	return "pipe"
}

func (*pipeResource) FileType() schema.FileType {
	return schema.FileTypePipe
}

func (p *pipeResource) Read(ctx context.Context, buf []byte) (int, error) {
	return p.read(ctx, buf)
}

func (p *pipeResource) Write(ctx context.Context, buf []byte) (int, error) {
	return p.write(ctx, buf)
}

func (p *pipeResource) Close() error {
	p.releaseShare()

	return p.closeFD()
}

// findResource is an open directory search. The matched names are fixed
// when the search starts.
type findResource struct {
	unsupported
	mu     sync.Mutex
	dir    string
	names  []string
	cursor int
}

func (*findResource) Kind() string {
	return "find"
}

// next returns the next unvisited name.
func (f *findResource) next() (string, bool) {
	if f.cursor >= len(f.names) {
		return "", false
	}

	name := f.names[f.cursor]
	f.cursor++

	return name, true
}

func (f *findResource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.names = nil

	return nil
}
