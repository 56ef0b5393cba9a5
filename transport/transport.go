package transport

import (
	"errors"
	"io"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

// Transport is one end of the duplex channel.
type Transport interface {
	// Send writes p in full. It returns len(p) on success.
	Send(p []byte) (int, error)

	// Receive reads exactly n bytes.
	Receive(n int) ([]byte, error)

	// Close releases both directions. Closing twice is a no-op.
	Close() error
}

// DefaultRequestPath is the FIFO carrying planner requests.
const DefaultRequestPath = "/tmp/tuberia-ff-astar"

// DefaultResponsePath is the FIFO carrying companion responses.
const DefaultResponsePath = "/tmp/tuberia-astar-ff"

// Paths names the two FIFOs of a channel.
type Paths struct {
	// Request carries bytes from the planner to the companion.
	Request string

	// Response carries bytes from the companion to the planner.
	Response string
}

// DefaultPaths returns the fixed paths shared with the reference companion.
func DefaultPaths() Paths {
	return Paths{Request: DefaultRequestPath, Response: DefaultResponsePath}
}

// ErrClosed is the cause reported when a closed transport is used.
var ErrClosed = errors.New("transport closed")

func failure(op, path, msg string, cause error) *bridgeerr.Error {
	err := bridgeerr.New("transport", op, bridgeerr.ErrCodeTransportFailure, msg).WithCause(cause)
	if path != "" {
		err = err.WithDetails(map[string]any{"path": path})
	}
	return err
}

// writeFull writes p to w, treating a short write without an error as a
// failure.
func writeFull(w io.Writer, p []byte) (int, error) {
	n, err := w.Write(p)
	if err == nil && n != len(p) {
		err = bridgeerr.ErrShortTransfer
	}
	return n, err
}

// readFull reads exactly n bytes from r. io.ErrUnexpectedEOF and io.EOF both
// mean the peer went away mid-frame.
func readFull(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
