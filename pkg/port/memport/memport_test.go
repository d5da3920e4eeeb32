package memport

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/kiss.go/pkg/modem"
	"github.com/robotalks/kiss.go/pkg/port"
)

var (
	_ port.Serial      = (*Serial)(nil)
	_ port.Radio       = (*Radio)(nil)
	_ modem.Configurer = (*Radio)(nil)
)

func TestSerial(t *testing.T) {
	s := NewSerial()
	p := make([]byte, 2)
	n, err := s.ReadInto(p, 0)
	require.NoError(t, err)
	require.Zero(t, n)
	s.Inject(1, 2, 3)
	require.Equal(t, 3, s.Peek())
	n, _ = s.ReadInto(p, 0)
	require.Equal(t, []byte{1, 2}, p[:n])
	require.NoError(t, s.Write([]byte{9}))
	require.Equal(t, []byte{9}, s.Output())
	s.Close()
	n, _ = s.ReadInto(p, 0)
	require.Equal(t, 1, n)
	_, err = s.ReadInto(p, 0)
	require.Equal(t, port.ErrClosed, err)
}

func TestRadioLink(t *testing.T) {
	a, b := NewRadio(), NewRadio()
	Link(a, b)
	require.NoError(t, a.Write([]byte{1, 2, 3}))
	require.True(t, b.Peek())
	p := make([]byte, 2)
	_, err := b.ReadInto(p)
	require.Equal(t, io.ErrShortBuffer, err)
	require.False(t, b.Peek())
	require.NoError(t, b.Write([]byte{4}))
	n, err := a.ReadInto(p)
	require.NoError(t, err)
	require.Equal(t, []byte{4}, p[:n])

	a.Inject([]byte{5})
	require.NoError(t, a.HardReset())
	require.False(t, a.Peek())
	require.Equal(t, 1, a.Resets())
}
