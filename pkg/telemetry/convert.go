package telemetry

import (
	"time"

	"github.com/robotalks/kiss.go/pkg/bridge"
	"github.com/robotalks/kiss.go/pkg/kiss"
)

// FromEvent converts a bridge event.
func FromEvent(id string, ev bridge.Event) *Event {
	m := &Event{
		Bridge: id,
		Kind:   int32(ev.Kind),
		Time:   ev.Time.UnixNano(),
		Size:   uint32(ev.Size),
	}
	if ev.Err != nil {
		m.Error = ev.Err.Error()
	}
	if ev.Kind == bridge.EventParams {
		m.Params = FromParams(ev.Params)
	}
	return m
}

// FromParams converts TNC parameters.
func FromParams(p kiss.Params) *Params {
	return &Params{
		TxDelay:     uint32(p.TXDelay / time.Millisecond),
		Persistence: uint32(p.Persistence),
		SlotTime:    uint32(p.SlotTime / time.Millisecond),
		TxTail:      uint32(p.TXTail / time.Millisecond),
		FullDuplex:  p.FullDuplex,
	}
}

// FromStats converts bridge counters.
func FromStats(s bridge.Stats) *Counters {
	return &Counters{
		ToRadio:        s.ToRadio,
		ToSerial:       s.ToSerial,
		Dropped:        s.Dropped,
		Errors:         s.Errors,
		FrameTooLarge:  s.FrameTooLarge,
		BadEscape:      s.BadEscape,
		BadChecksum:    s.BadChecksum,
		ParamUpdates:   s.ParamUpdates,
		WatchdogResets: s.WatchdogResets,
	}
}

// KindName names the event kind.
func (m *Event) KindName() string {
	return bridge.EventKind(m.Kind).String()
}

// Timestamp returns Time as time.Time.
func (m *Event) Timestamp() time.Time {
	return time.Unix(0, m.Time)
}

// MetaOf describes the bridge run by ctl.
func MetaOf(ctl *bridge.Controller, started time.Time) *Meta {
	s := ctl.Settings
	meta := &Meta{
		Frequency: s.Frequency,
		Power:     int32(s.Power),
		Preset:    s.Preset.Name,
		Registers: append([]byte{}, s.Preset.Registers[:]...),
		Started:   started.UnixNano(),
	}
	if ctl.Checksum != nil {
		meta.Checksum = ctl.Checksum.Preset().Name
	}
	return meta
}
