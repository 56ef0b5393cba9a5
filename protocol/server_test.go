package protocol

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
	"github.com/zero-day-ai/pathbridge/transport"
)

type fakeHandler struct {
	blocked map[string]bool
	routes  []string
	fail    error
}

func (h *fakeHandler) Heuristic(a, b string) (float64, error) {
	return 1.25, nil
}

func (h *fakeHandler) Cost(a, b string) (float64, error) {
	if h.fail != nil {
		return 0, h.fail
	}
	if h.blocked[a] || h.blocked[b] {
		return 0, fmt.Errorf("cost %s %s: %w", a, b, bridgeerr.ErrNoSolution)
	}
	return 7.5, nil
}

func (h *fakeHandler) Route(a, b string) error {
	if h.blocked[a] || h.blocked[b] {
		return bridgeerr.ErrNoSolution
	}
	h.routes = append(h.routes, a+">"+b)
	return nil
}

func TestServerClientConversation(t *testing.T) {
	defer goleak.VerifyNone(t)

	planner, companion := transport.Pair()
	h := &fakeHandler{blocked: map[string]bool{"C9_9": true}}
	srv := NewServer(companion, DefaultFormat(), h, nil)

	var g errgroup.Group
	g.Go(func() error {
		defer companion.Close()
		return srv.Serve(context.Background())
	})

	ctx := context.Background()
	c := NewClient(planner, DefaultFormat())

	v, err := c.Heuristic(ctx, "C0_0", "C1_1")
	require.NoError(t, err)
	assert.Equal(t, 1.25, v)

	v, err = c.Cost(ctx, "C0_0", "C1_1")
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)

	_, err = c.Cost(ctx, "C0_0", "C9_9")
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeNoSolution))

	// The exchange is still in step after a no-solution answer.
	require.NoError(t, c.Route(ctx, "C0_0", "C1_1"))
	err = c.Route(ctx, "C1_1", "C9_9")
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeNoSolution))

	require.NoError(t, c.Shutdown(ctx))
	require.NoError(t, g.Wait())
	require.NoError(t, planner.Close())

	assert.Equal(t, []string{"C0_0>C1_1"}, h.routes)
}

func TestServerHandlerFailureStopsServe(t *testing.T) {
	defer goleak.VerifyNone(t)

	planner, companion := transport.Pair()
	boom := errors.New("search crashed")
	srv := NewServer(companion, DefaultFormat(), &fakeHandler{fail: boom}, nil)

	var g errgroup.Group
	g.Go(func() error {
		defer companion.Close()
		return srv.Serve(context.Background())
	})

	_, err := NewClient(planner, DefaultFormat()).Cost(context.Background(), "C0_0", "C1_1")
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))

	assert.ErrorIs(t, g.Wait(), boom)
	require.NoError(t, planner.Close())
}

func TestServerRejectsInvalidOpcode(t *testing.T) {
	mem := transport.NewMemory([]byte{'7'})
	_, err := NewServer(mem, DefaultFormat(), &fakeHandler{}, nil).ServeOne()
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeProtocolViolation))
}

func TestServerRejectsOverlongName(t *testing.T) {
	mem := transport.NewMemory([]byte("0C123456789\x00"))
	_, err := NewServer(mem, DefaultFormat(), &fakeHandler{}, nil).ServeOne()
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeProtocolViolation))
}

func TestServerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewServer(transport.NewMemory(), DefaultFormat(), &fakeHandler{}, nil).Serve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
