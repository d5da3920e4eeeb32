package kiss

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParamsApply(t *testing.T) {
	p := DefaultParams()
	require.Equal(t, 500*time.Millisecond, p.TXDelay)
	require.Equal(t, byte(63), p.Persistence)

	frames := []Frame{
		ParamFrame(0, CodeTXDelay, 30),
		ParamFrame(0, CodePersistence, 255),
		ParamFrame(0, CodeSlotTime, 5),
		ParamFrame(0, CodeTXTail, 2),
		ParamFrame(0, CodeFullDuplex, 1),
		ParamFrame(0, CodeSetHardware, 0x42),
		{Command: CmdReturn},
		{Command: DataCommand(0), Data: []byte("ignored")},
	}
	for _, f := range frames {
		require.NoError(t, p.Apply(f.Command, f.Data))
	}
	require.Equal(t, Params{
		TXDelay:     300 * time.Millisecond,
		Persistence: 255,
		SlotTime:    50 * time.Millisecond,
		TXTail:      20 * time.Millisecond,
		FullDuplex:  true,
	}, p)

	require.NoError(t, p.Apply(NewCommand(0, CodeFullDuplex), []byte{0, 1, 2}))
	require.False(t, p.FullDuplex)
}

func TestParamsApplyErrors(t *testing.T) {
	p := DefaultParams()
	err := p.Apply(NewCommand(0, CodeTXDelay), nil)
	require.True(t, errors.Is(err, ErrShortParam))
	err = p.Apply(NewCommand(1, Code(0x0c)), []byte{1})
	require.True(t, errors.Is(err, ErrUnsupportedCommand))
	require.Equal(t, DefaultParams(), p)
}
