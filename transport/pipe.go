package transport

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

// Pipe is a handle on one direction of a named pipe.
type Pipe struct {
	path string
	file *os.File
	mu   sync.Mutex
	done bool
}

// OpenRead opens path for reading. Opening a FIFO blocks until a writer
// opens the other end.
func OpenRead(path string) (*Pipe, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, failure("open_read", path, "cannot open pipe for reading", err)
	}
	return &Pipe{path: path, file: f}, nil
}

// OpenWrite opens path for writing. Opening a FIFO blocks until a reader
// opens the other end.
func OpenWrite(path string) (*Pipe, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, failure("open_write", path, "cannot open pipe for writing", err)
	}
	return &Pipe{path: path, file: f}, nil
}

// Path returns the filesystem path of the pipe.
func (p *Pipe) Path() string { return p.path }

// Send writes b in full.
func (p *Pipe) Send(b []byte) (int, error) {
	n, err := writeFull(p.file, b)
	if err != nil {
		return n, failure("send", p.path, fmt.Sprintf("wrote %d of %d bytes", n, len(b)), err)
	}
	return n, nil
}

// Receive reads exactly n bytes.
func (p *Pipe) Receive(n int) ([]byte, error) {
	buf, err := readFull(p.file, n)
	if err != nil {
		return nil, failure("receive", p.path, fmt.Sprintf("expected %d bytes", n), err)
	}
	return buf, nil
}

// Close closes the handle. Only the first call has an effect.
func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return nil
	}
	p.done = true
	if err := p.file.Close(); err != nil {
		return failure("close", p.path, "cannot close pipe", err)
	}
	return nil
}

// EnsureFIFO creates a named pipe at path with the given permissions unless
// one already exists. An existing non-FIFO file at path is an error.
func EnsureFIFO(path string, mode fs.FileMode) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.Mode()&fs.ModeNamedPipe == 0 {
			return bridgeerr.Newf("transport", "mkfifo", bridgeerr.ErrCodeTransportFailure,
				"%s exists and is not a named pipe", path).
				WithDetails(map[string]any{"path": path, "mode": info.Mode().String()})
		}
		return nil
	case !os.IsNotExist(err):
		return failure("mkfifo", path, "cannot stat pipe path", err)
	}

	if err := unix.Mkfifo(path, uint32(mode.Perm())); err != nil {
		return failure("mkfifo", path, "cannot create named pipe", err)
	}
	return nil
}

// Duplex joins a read pipe and a write pipe into a Transport.
type Duplex struct {
	in     *Pipe
	out    *Pipe
	logger *slog.Logger
}

// Option configures a Duplex.
type Option func(*Duplex)

// WithLogger logs frame traffic at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Duplex) {
		d.logger = logger
	}
}

// OpenPlanner opens the planner end of the channel: the response pipe for
// reading, then the request pipe for writing.
func OpenPlanner(paths Paths, opts ...Option) (*Duplex, error) {
	in, err := OpenRead(paths.Response)
	if err != nil {
		return nil, err
	}
	out, err := OpenWrite(paths.Request)
	if err != nil {
		_ = in.Close()
		return nil, err
	}
	return newDuplex(in, out, opts), nil
}

// OpenCompanion opens the companion end of the channel: the response pipe for
// writing, then the request pipe for reading.
func OpenCompanion(paths Paths, opts ...Option) (*Duplex, error) {
	out, err := OpenWrite(paths.Response)
	if err != nil {
		return nil, err
	}
	in, err := OpenRead(paths.Request)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	return newDuplex(in, out, opts), nil
}

func newDuplex(in, out *Pipe, opts []Option) *Duplex {
	d := &Duplex{in: in, out: out}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Send writes a frame to the outbound pipe.
func (d *Duplex) Send(p []byte) (int, error) {
	d.logger.Debug("send frame", "path", d.out.path, "bytes", len(p))
	return d.out.Send(p)
}

// Receive reads a frame from the inbound pipe.
func (d *Duplex) Receive(n int) ([]byte, error) {
	b, err := d.in.Receive(n)
	if err == nil {
		d.logger.Debug("receive frame", "path", d.in.path, "bytes", n)
	}
	return b, err
}

// Close closes both pipes, the outbound one first. Both are always attempted;
// the first error is returned.
func (d *Duplex) Close() error {
	errOut := d.out.Close()
	errIn := d.in.Close()
	if errOut != nil {
		return errOut
	}
	return errIn
}
