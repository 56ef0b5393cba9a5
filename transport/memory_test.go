package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

func TestMemoryRecordsFrames(t *testing.T) {
	m := NewMemory([]byte("abc"), []byte("defg"))

	n, err := m.Send([]byte{'0'})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := m.Receive(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), got)

	got, err = m.Receive(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("cdefg"), got)

	assert.Equal(t, [][]byte{{'0'}}, m.Sent())
	assert.Len(t, m.Received(), 2)
	assert.Zero(t, m.Pending())
}

func TestMemoryShortScriptIsTransportFailure(t *testing.T) {
	m := NewMemory([]byte("abc"))

	_, err := m.Receive(10)
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory([]byte("abc"))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
	assert.Equal(t, 2, m.CloseCount())

	_, err := m.Send([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = m.Receive(1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemorySentIsCopy(t *testing.T) {
	m := NewMemory()
	frame := []byte("C1\x00")
	_, err := m.Send(frame)
	require.NoError(t, err)
	frame[0] = 'X'

	assert.Equal(t, []byte("C1\x00"), m.Sent()[0])
}

func TestPairRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	planner, companion := Pair()

	done := make(chan error, 1)
	go func() {
		b, err := companion.Receive(4)
		if err != nil {
			done <- err
			return
		}
		_, err = companion.Send(append(b, '!'))
		done <- err
	}()

	_, err := planner.Send([]byte("ping"))
	require.NoError(t, err)

	got, err := planner.Receive(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("ping!"), got)
	require.NoError(t, <-done)

	require.NoError(t, planner.Close())
	require.NoError(t, companion.Close())
	require.NoError(t, planner.Close())
}

func TestPairPeerClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	planner, companion := Pair()
	require.NoError(t, companion.Close())

	_, err := planner.Send([]byte("x"))
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))

	_, err = planner.Receive(1)
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeTransportFailure))

	require.NoError(t, planner.Close())
}
