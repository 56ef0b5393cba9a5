package transport

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Memory is a scripted in-memory Transport for tests. Bytes queued with Queue
// are handed out by Receive; every Send and Receive is recorded as one frame.
type Memory struct {
	mu       sync.Mutex
	inbound  bytes.Buffer
	sent     [][]byte
	received [][]byte
	closed   bool
	closes   int
}

// NewMemory returns a Memory transport with the given frames queued for
// Receive.
func NewMemory(frames ...[]byte) *Memory {
	m := &Memory{}
	m.Queue(frames...)
	return m
}

// Queue appends frames to the inbound script.
func (m *Memory) Queue(frames ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range frames {
		m.inbound.Write(f)
	}
}

// Send records p.
func (m *Memory) Send(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, failure("send", "memory", "send on closed transport", ErrClosed)
	}
	m.sent = append(m.sent, append([]byte(nil), p...))
	return len(p), nil
}

// Receive returns the next n scripted bytes. Running out of script is a
// transport failure, as a closed pipe would be.
func (m *Memory) Receive(n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, failure("receive", "memory", "receive on closed transport", ErrClosed)
	}
	buf, err := readFull(&m.inbound, n)
	if err != nil {
		return nil, failure("receive", "memory", fmt.Sprintf("expected %d bytes", n), err)
	}
	m.received = append(m.received, buf)
	return buf, nil
}

// Close marks the transport closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	m.closed = true
	return nil
}

// Sent returns copies of the frames passed to Send, in order.
func (m *Memory) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	for i, f := range m.sent {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Received returns the frames handed out by Receive, in order.
func (m *Memory) Received() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.received))
	copy(out, m.received)
	return out
}

// Pending returns the number of scripted bytes not yet received.
func (m *Memory) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inbound.Len()
}

// Closed reports whether Close has been called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// CloseCount returns how many times Close has been called.
func (m *Memory) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// Reset forgets recorded frames, keeping the remaining script.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.received = nil
}

// streamEnd is one end of a Pair.
type streamEnd struct {
	r    *io.PipeReader
	w    *io.PipeWriter
	once sync.Once
}

// Pair returns two connected in-memory ends with the same blocking
// semantics as the FIFO pair: a Send on one end completes only once the
// other end has received every byte.
func Pair() (planner, companion Transport) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	return &streamEnd{r: respR, w: reqW}, &streamEnd{r: reqR, w: respW}
}

func (s *streamEnd) Send(p []byte) (int, error) {
	n, err := writeFull(s.w, p)
	if err != nil {
		return n, failure("send", "pair", fmt.Sprintf("wrote %d of %d bytes", n, len(p)), err)
	}
	return n, nil
}

func (s *streamEnd) Receive(n int) ([]byte, error) {
	buf, err := readFull(s.r, n)
	if err != nil {
		return nil, failure("receive", "pair", fmt.Sprintf("expected %d bytes", n), err)
	}
	return buf, nil
}

func (s *streamEnd) Close() error {
	s.once.Do(func() {
		_ = s.w.Close()
		_ = s.r.Close()
	})
	return nil
}
