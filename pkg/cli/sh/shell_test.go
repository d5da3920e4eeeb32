package sh

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/kiss.go/pkg/kiss"
)

func TestFormatFrame(t *testing.T) {
	require.Equal(t, "Return", FormatFrame(kiss.Frame{Command: kiss.CmdReturn}))
	require.Equal(t, "[0] Data 0 bytes", FormatFrame(kiss.Frame{}))
	require.Equal(t, `[2] Data 2 bytes: 6869 "hi"`,
		FormatFrame(kiss.Frame{Command: kiss.DataCommand(2), Data: []byte("hi")}))
	require.Equal(t, "[0] TXDelay 1 bytes: c0",
		FormatFrame(kiss.ParamFrame(0, kiss.CodeTXDelay, 0xc0)))
}

func TestReceive(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &Shell{Conn: &Conn{Ctx: ctx, Cancel: cancel, Client: kiss.NewClient(local), Closer: local}}
	go s.Conn.Client.Run(ctx)

	go remote.Write(append(kiss.Encode(kiss.DataCommand(0), []byte{1, 2}), kiss.Encode(kiss.DataCommand(1), []byte{3})...))
	frames, err := s.Receive(2, time.Second)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, []byte{1, 2}, frames[0].Data)
	require.Equal(t, uint8(1), frames[1].Command.Port())

	frames, err = s.Receive(1, 10*time.Millisecond)
	require.NoError(t, err)
	require.Empty(t, frames)
}

func TestReceiveNotConnected(t *testing.T) {
	_, err := (&Shell{}).Receive(1, time.Millisecond)
	require.Error(t, err)
}
