package protocol

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
	"github.com/zero-day-ai/pathbridge/transport"
)

// Stats counts the traffic a Client has generated.
type Stats struct {
	RoundTrips     int
	FramesSent     int
	FramesReceived int
}

// Client is the planner side of the protocol. It is not safe for concurrent
// use; the protocol allows one outstanding request at a time.
type Client struct {
	t      transport.Transport
	format Format
	stats  Stats
}

// NewClient returns a Client speaking format over t.
func NewClient(t transport.Transport, format Format) *Client {
	return &Client{t: t, format: format}
}

// Format returns the client's wire bounds.
func (c *Client) Format() Format { return c.format }

// Stats returns the traffic counters.
func (c *Client) Stats() Stats { return c.stats }

// Heuristic runs a heuristic round-trip for the pair (a, b).
func (c *Client) Heuristic(ctx context.Context, a, b string) (float64, error) {
	return c.exchange(ctx, OpHeuristic, a, b)
}

// Cost runs a cost round-trip for the pair (a, b). A no-solution
// confirmation is returned as a NO_SOLUTION error.
func (c *Client) Cost(ctx context.Context, a, b string) (float64, error) {
	return c.exchange(ctx, OpCost, a, b)
}

// Route notifies the companion of one move of the final plan.
func (c *Client) Route(ctx context.Context, a, b string) error {
	_, err := c.exchange(ctx, OpRoute, a, b)
	return err
}

// Shutdown sends the shutdown opcode.
func (c *Client) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.send(OpShutdown, []byte{byte(OpShutdown)}); err != nil {
		return err
	}
	c.stats.RoundTrips++
	return nil
}

// exchange performs one round-trip. The context is only consulted before the
// first frame: once a request is on the wire it runs to completion so the two
// ends stay in step.
func (c *Client) exchange(ctx context.Context, op Opcode, a, b string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	frameA, err := c.format.EncodeName(a)
	if err != nil {
		return 0, err
	}
	frameB, err := c.format.EncodeName(b)
	if err != nil {
		return 0, err
	}

	if err := c.send(op, []byte{byte(op)}); err != nil {
		return 0, err
	}
	if err := c.send(op, frameA); err != nil {
		return 0, err
	}
	if _, err := c.receive(op, c.format.NameBound); err != nil {
		return 0, err
	}
	if err := c.send(op, frameB); err != nil {
		return 0, err
	}
	conf, err := c.receive(op, c.format.NameBound)
	if err != nil {
		return 0, err
	}
	c.stats.RoundTrips++

	if op.ChecksNoSolution() {
		if _, noSol := c.format.DecodeConfirmation(conf); noSol {
			return 0, bridgeerr.Newf("protocol", op.String(), bridgeerr.ErrCodeNoSolution,
				"no path between %s and %s", a, b).
				WithCause(bridgeerr.ErrNoSolution).
				WithDetails(map[string]any{"from": a, "to": b})
		}
	}

	if !op.HasResult() {
		return 0, nil
	}

	result, err := c.receive(op, c.format.ResultSize)
	if err != nil {
		return 0, err
	}
	v, err := c.format.DecodeResult(result)
	if err != nil {
		return 0, fmt.Errorf("%s %s -> %s: %w", op, a, b, err)
	}
	return v, nil
}

func (c *Client) send(op Opcode, frame []byte) error {
	if _, err := c.t.Send(frame); err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	c.stats.FramesSent++
	return nil
}

func (c *Client) receive(op Opcode, n int) ([]byte, error) {
	frame, err := c.t.Receive(n)
	if err != nil {
		return nil, fmt.Errorf("%s response: %w", op, err)
	}
	c.stats.FramesReceived++
	return frame, nil
}
