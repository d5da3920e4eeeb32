package indicator

import (
	"sync"
	"time"

	fx "github.com/robotalks/kiss.go/pkg/framework"
)

// Pins identifies the LED outputs.
type Pins struct {
	Receive   int
	Transmit  int
	Error     int
	Heartbeat int
}

// DefaultPins are the analog pins used by the reference board.
var DefaultPins = Pins{
	Receive:   18, // A4
	Transmit:  16, // A2
	Error:     20, // A6
	Heartbeat: 14, // A0
}

// DefaultPulseWidth is how long a pulsed LED stays lit.
const DefaultPulseWidth = 20 * time.Millisecond

// PinWriter sets an output pin level.
type PinWriter interface {
	WritePin(pin int, high bool) error
}

// PinWriterFunc is func form of PinWriter.
type PinWriterFunc func(pin int, high bool) error

// WritePin implements PinWriter.
func (f PinWriterFunc) WritePin(pin int, high bool) error {
	return f(pin, high)
}

// LED drives four LEDs through a PinWriter.
// Pulses are switched off by Tick once PulseWidth elapsed.
type LED struct {
	Pins       Pins
	Writer     PinWriter
	Clock      fx.TimeSource
	PulseWidth time.Duration

	lock    sync.Mutex
	expires map[int]time.Time
}

// NewLED creates a LED indicator.
func NewLED(pins Pins, w PinWriter, clock fx.TimeSource) *LED {
	return &LED{
		Pins:       pins,
		Writer:     w,
		Clock:      clock,
		PulseWidth: DefaultPulseWidth,
		expires:    make(map[int]time.Time),
	}
}

func (l *LED) pin(s Signal) int {
	switch s {
	case Receive:
		return l.Pins.Receive
	case Transmit:
		return l.Pins.Transmit
	}
	return l.Pins.Heartbeat
}

// Pulse implements Indicator.
func (l *LED) Pulse(s Signal) {
	pin := l.pin(s)
	l.lock.Lock()
	l.expires[pin] = l.Clock.Time().Add(l.PulseWidth)
	l.lock.Unlock()
	l.Writer.WritePin(pin, true)
}

// SetError implements Indicator.
func (l *LED) SetError(on bool) {
	l.Writer.WritePin(l.Pins.Error, on)
}

// Tick switches off expired pulses.
func (l *LED) Tick() {
	now := l.Clock.Time()
	var off []int
	l.lock.Lock()
	for pin, t := range l.expires {
		if !now.Before(t) {
			off = append(off, pin)
			delete(l.expires, pin)
		}
	}
	l.lock.Unlock()
	for _, pin := range off {
		l.Writer.WritePin(pin, false)
	}
}
