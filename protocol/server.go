package protocol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
	"github.com/zero-day-ai/pathbridge/transport"
)

// Handler answers companion-side requests. Returning an error that wraps
// bridgeerr.ErrNoSolution makes the server answer with the sentinel; any
// other error stops Serve.
type Handler interface {
	Heuristic(a, b string) (float64, error)
	Cost(a, b string) (float64, error)
	Route(a, b string) error
}

// Server is the companion side of the protocol.
type Server struct {
	t       transport.Transport
	format  Format
	handler Handler
	logger  *slog.Logger
}

// NewServer returns a Server answering requests read from t with h.
func NewServer(t transport.Transport, format Format, h Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{t: t, format: format, handler: h, logger: logger}
}

// Serve answers requests until a shutdown opcode arrives, which returns nil.
// Cancelling ctx stops the loop between requests.
func (s *Server) Serve(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		op, err := s.ServeOne()
		if err != nil {
			return err
		}
		if op == OpShutdown {
			s.logger.Debug("shutdown received")
			return nil
		}
	}
}

// ServeOne reads and answers a single request.
func (s *Server) ServeOne() (Opcode, error) {
	raw, err := s.t.Receive(1)
	if err != nil {
		return 0, fmt.Errorf("read opcode: %w", err)
	}
	op := Opcode(raw[0])
	if !op.Valid() {
		return op, bridgeerr.Newf("protocol", "serve", bridgeerr.ErrCodeProtocolViolation,
			"invalid command %s", op)
	}
	if op == OpShutdown {
		return op, nil
	}

	a, err := s.readName()
	if err != nil {
		return op, err
	}
	if err := s.send(s.format.EncodeConfirmation(a)); err != nil {
		return op, err
	}
	b, err := s.readName()
	if err != nil {
		return op, err
	}

	s.logger.Debug("request", "op", op.String(), "from", a, "to", b)

	var v float64
	switch op {
	case OpHeuristic:
		v, err = s.handler.Heuristic(a, b)
	case OpCost:
		v, err = s.handler.Cost(a, b)
	default:
		err = s.handler.Route(a, b)
	}
	return op, s.answer(op, b, v, err)
}

// answer sends the second confirmation and, for requests that carry one, the
// result frame. After a sentinel confirmation the planner reads a result only
// for heuristic requests, since those never test the confirmation.
func (s *Server) answer(op Opcode, b string, v float64, herr error) error {
	if herr != nil && !errors.Is(herr, bridgeerr.ErrNoSolution) {
		return herr
	}
	if herr != nil {
		if err := s.send(s.format.EncodeConfirmation(s.format.Sentinel)); err != nil {
			return err
		}
		if op.HasResult() && !op.ChecksNoSolution() {
			return s.send(s.format.EncodeNoSolutionResult())
		}
		return nil
	}
	if err := s.send(s.format.EncodeConfirmation(b)); err != nil {
		return err
	}
	if op.HasResult() {
		return s.send(s.format.EncodeResult(v))
	}
	return nil
}

// readName reads a NUL-terminated name one byte at a time.
func (s *Server) readName() (string, error) {
	buf := make([]byte, 0, s.format.NameBound)
	for len(buf) < s.format.NameBound {
		b, err := s.t.Receive(1)
		if err != nil {
			return "", fmt.Errorf("read cell name: %w", err)
		}
		if b[0] == 0 {
			return string(buf), nil
		}
		buf = append(buf, b[0])
	}
	return "", bridgeerr.Newf("protocol", "read_name", bridgeerr.ErrCodeProtocolViolation,
		"cell name exceeds %d bytes", s.format.NameBound)
}

func (s *Server) send(frame []byte) error {
	if _, err := s.t.Send(frame); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
