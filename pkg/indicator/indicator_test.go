package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/kiss.go/pkg/framework"
)

type pinLog struct {
	levels map[int]bool
	writes int
}

func (p *pinLog) WritePin(pin int, high bool) error {
	p.levels[pin] = high
	p.writes++
	return nil
}

func TestLED(t *testing.T) {
	clock := fx.NewManualClock(time.Unix(100, 0))
	pins := &pinLog{levels: make(map[int]bool)}
	led := NewLED(DefaultPins, pins, clock)

	led.Pulse(Transmit)
	require.True(t, pins.levels[DefaultPins.Transmit])
	led.Tick()
	require.True(t, pins.levels[DefaultPins.Transmit])

	clock.Advance(10 * time.Millisecond)
	led.Pulse(Receive)
	clock.Advance(10 * time.Millisecond)
	led.Tick()
	require.False(t, pins.levels[DefaultPins.Transmit])
	require.True(t, pins.levels[DefaultPins.Receive])
	clock.Advance(10 * time.Millisecond)
	led.Tick()
	require.False(t, pins.levels[DefaultPins.Receive])

	led.SetError(true)
	require.True(t, pins.levels[DefaultPins.Error])
	led.Pulse(Heartbeat)
	clock.Advance(time.Second)
	led.Tick()
	require.True(t, pins.levels[DefaultPins.Error])
	require.False(t, pins.levels[DefaultPins.Heartbeat])
	led.SetError(false)
	require.False(t, pins.levels[DefaultPins.Error])
}

func TestRecorderAndMulti(t *testing.T) {
	r1, r2 := NewRecorder(), NewRecorder()
	var ind Indicator = Multi{r1, r2, Nop{}, &Log{}}
	ind.Pulse(Heartbeat)
	ind.Pulse(Receive)
	ind.Pulse(Receive)
	ind.SetError(true)
	for _, r := range []*Recorder{r1, r2} {
		require.Equal(t, 1, r.Pulses(Heartbeat))
		require.Equal(t, 2, r.Pulses(Receive))
		require.Zero(t, r.Pulses(Transmit))
		require.True(t, r.ErrorOn())
	}
	r1.Reset()
	require.Zero(t, r1.Pulses(Receive))
	require.Equal(t, "transmit", Transmit.String())
}
