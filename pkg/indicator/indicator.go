// Package indicator drives the status lights of the bridge.
package indicator

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Signal is a pulsed indication.
type Signal int

// Signals.
const (
	Heartbeat Signal = iota
	Receive
	Transmit
)

// String implements fmt.Stringer.
func (s Signal) String() string {
	switch s {
	case Heartbeat:
		return "heartbeat"
	case Receive:
		return "receive"
	case Transmit:
		return "transmit"
	}
	return fmt.Sprintf("signal(%d)", int(s))
}

// Indicator shows traffic pulses and a latched error.
type Indicator interface {
	Pulse(Signal)
	SetError(on bool)
}

// Nop discards all indications.
type Nop struct{}

// Pulse implements Indicator.
func (Nop) Pulse(Signal) {}

// SetError implements Indicator.
func (Nop) SetError(bool) {}

// Log reports indications to glog at verbosity 3, and error changes at Info.
type Log struct {
	lock    sync.Mutex
	errorOn bool
}

// Pulse implements Indicator.
func (l *Log) Pulse(s Signal) {
	glog.V(3).Infof("LED %s", s)
}

// SetError implements Indicator.
func (l *Log) SetError(on bool) {
	l.lock.Lock()
	changed := l.errorOn != on
	l.errorOn = on
	l.lock.Unlock()
	if changed {
		if on {
			glog.Info("LED error on")
		} else {
			glog.Info("LED error off")
		}
	}
}

// Multi fans indications out to all indicators.
type Multi []Indicator

// Pulse implements Indicator.
func (m Multi) Pulse(s Signal) {
	for _, i := range m {
		i.Pulse(s)
	}
}

// SetError implements Indicator.
func (m Multi) SetError(on bool) {
	for _, i := range m {
		i.SetError(on)
	}
}
