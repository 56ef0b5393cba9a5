package transport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

func tempPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		Request:  filepath.Join(dir, "request"),
		Response: filepath.Join(dir, "response"),
	}
	require.NoError(t, EnsureFIFO(paths.Request, 0o600))
	require.NoError(t, EnsureFIFO(paths.Response, 0o600))
	return paths
}

func TestEnsureFIFO(t *testing.T) {
	dir := t.TempDir()

	t.Run("creates pipe", func(t *testing.T) {
		path := filepath.Join(dir, "fifo")
		require.NoError(t, EnsureFIFO(path, 0o600))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeNamedPipe)
	})

	t.Run("existing pipe is accepted", func(t *testing.T) {
		path := filepath.Join(dir, "again")
		require.NoError(t, EnsureFIFO(path, 0o600))
		require.NoError(t, EnsureFIFO(path, 0o600))
	})

	t.Run("regular file is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "regular")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		err := EnsureFIFO(path, 0o600)
		require.Error(t, err)
		assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))
	})

	t.Run("missing directory", func(t *testing.T) {
		err := EnsureFIFO(filepath.Join(dir, "nope", "fifo"), 0o600)
		require.Error(t, err)
		assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))
	})
}

func TestOpenMissingPipe(t *testing.T) {
	_, err := OpenRead(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))

	_, err = OpenWrite(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))
}

func TestDuplexOverFIFOs(t *testing.T) {
	paths := tempPaths(t)

	var g errgroup.Group
	g.Go(func() error {
		c, err := OpenCompanion(paths)
		if err != nil {
			return err
		}
		defer c.Close()

		op, err := c.Receive(1)
		if err != nil {
			return err
		}
		_, err = c.Send([]byte{op[0], op[0]})
		return err
	})

	p, err := OpenPlanner(paths)
	require.NoError(t, err)

	_, err = p.Send([]byte{'3'})
	require.NoError(t, err)

	got, err := p.Receive(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("33"), got)

	require.NoError(t, g.Wait())
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func TestDuplexReceiveAfterPeerExit(t *testing.T) {
	paths := tempPaths(t)

	var g errgroup.Group
	g.Go(func() error {
		c, err := OpenCompanion(paths)
		if err != nil {
			return err
		}
		return c.Close()
	})

	p, err := OpenPlanner(paths)
	require.NoError(t, err)
	require.NoError(t, g.Wait())

	_, err = p.Receive(10)
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))
	require.NoError(t, p.Close())
}
