package bridge

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robotalks/kiss.go/pkg/kiss"
)

// EventKind is the type of an Event.
type EventKind int

// Event kinds.
const (
	// EventToRadio is a frame forwarded from serial to radio.
	EventToRadio EventKind = iota
	// EventToSerial is a unit forwarded from radio to serial.
	EventToSerial
	// EventDropped is a frame not meant for the radio, e.g. other port.
	EventDropped
	// EventError is a failed transfer.
	EventError
	// EventParams is a TNC parameter update from the host.
	EventParams
	// EventWatchdog is a radio reset by the watchdog.
	EventWatchdog
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventToRadio:
		return "to-radio"
	case EventToSerial:
		return "to-serial"
	case EventDropped:
		return "dropped"
	case EventError:
		return "error"
	case EventParams:
		return "params"
	case EventWatchdog:
		return "watchdog"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event describes something that happened in the Controller.
type Event struct {
	Kind EventKind
	Time time.Time
	// Size is the payload length.
	Size   int
	Err    error
	Params kiss.Params
}

// Observer receives events. It's called from the bridge loop
// and must not block.
type Observer interface {
	Observe(Event)
}

// ObserverFunc is func form of Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}

// Observers fans events out.
type Observers []Observer

// Observe implements Observer.
func (o Observers) Observe(ev Event) {
	for _, ob := range o {
		ob.Observe(ev)
	}
}

// Stats are counters since start.
type Stats struct {
	ToRadio        uint64
	ToSerial       uint64
	Dropped        uint64
	Errors         uint64
	FrameTooLarge  uint64
	BadEscape      uint64
	BadChecksum    uint64
	ParamUpdates   uint64
	WatchdogResets uint64
}

type counters struct {
	toRadio        uint64
	toSerial       uint64
	dropped        uint64
	errors         uint64
	frameTooLarge  uint64
	badEscape      uint64
	badChecksum    uint64
	paramUpdates   uint64
	watchdogResets uint64
}

func inc(v *uint64) {
	atomic.AddUint64(v, 1)
}

func (c *counters) snapshot() Stats {
	return Stats{
		ToRadio:        atomic.LoadUint64(&c.toRadio),
		ToSerial:       atomic.LoadUint64(&c.toSerial),
		Dropped:        atomic.LoadUint64(&c.dropped),
		Errors:         atomic.LoadUint64(&c.errors),
		FrameTooLarge:  atomic.LoadUint64(&c.frameTooLarge),
		BadEscape:      atomic.LoadUint64(&c.badEscape),
		BadChecksum:    atomic.LoadUint64(&c.badChecksum),
		ParamUpdates:   atomic.LoadUint64(&c.paramUpdates),
		WatchdogResets: atomic.LoadUint64(&c.watchdogResets),
	}
}
