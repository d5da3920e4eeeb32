package telemetry

import (
	"github.com/golang/protobuf/proto"
)

// Event is a bridge event on the wire.
type Event struct {
	Bridge string `protobuf:"bytes,1,opt,name=bridge,proto3" json:"bridge,omitempty"`
	Kind   int32  `protobuf:"varint,2,opt,name=kind,proto3" json:"kind,omitempty"`
	// Time in nanoseconds since Unix epoch.
	Time   int64     `protobuf:"varint,3,opt,name=time,proto3" json:"time,omitempty"`
	Size   uint32    `protobuf:"varint,4,opt,name=size,proto3" json:"size,omitempty"`
	Error  string    `protobuf:"bytes,5,opt,name=error,proto3" json:"error,omitempty"`
	Params *Params   `protobuf:"bytes,6,opt,name=params,proto3" json:"params,omitempty"`
	Stats  *Counters `protobuf:"bytes,7,opt,name=stats,proto3" json:"stats,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Event) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Event) Reset() { *m = Event{} }

// String implements proto.Message.
func (m *Event) String() string { return proto.CompactTextString(m) }

// Params are the TNC parameters, durations in milliseconds.
type Params struct {
	TxDelay     uint32 `protobuf:"varint,1,opt,name=tx_delay,proto3" json:"tx_delay,omitempty"`
	Persistence uint32 `protobuf:"varint,2,opt,name=persistence,proto3" json:"persistence,omitempty"`
	SlotTime    uint32 `protobuf:"varint,3,opt,name=slot_time,proto3" json:"slot_time,omitempty"`
	TxTail      uint32 `protobuf:"varint,4,opt,name=tx_tail,proto3" json:"tx_tail,omitempty"`
	FullDuplex  bool   `protobuf:"varint,5,opt,name=full_duplex,proto3" json:"full_duplex,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Params) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Params) Reset() { *m = Params{} }

// String implements proto.Message.
func (m *Params) String() string { return proto.CompactTextString(m) }

// Counters mirrors bridge.Stats.
type Counters struct {
	ToRadio        uint64 `protobuf:"varint,1,opt,name=to_radio,proto3" json:"to_radio,omitempty"`
	ToSerial       uint64 `protobuf:"varint,2,opt,name=to_serial,proto3" json:"to_serial,omitempty"`
	Dropped        uint64 `protobuf:"varint,3,opt,name=dropped,proto3" json:"dropped,omitempty"`
	Errors         uint64 `protobuf:"varint,4,opt,name=errors,proto3" json:"errors,omitempty"`
	FrameTooLarge  uint64 `protobuf:"varint,5,opt,name=frame_too_large,proto3" json:"frame_too_large,omitempty"`
	BadEscape      uint64 `protobuf:"varint,6,opt,name=bad_escape,proto3" json:"bad_escape,omitempty"`
	BadChecksum    uint64 `protobuf:"varint,7,opt,name=bad_checksum,proto3" json:"bad_checksum,omitempty"`
	ParamUpdates   uint64 `protobuf:"varint,8,opt,name=param_updates,proto3" json:"param_updates,omitempty"`
	WatchdogResets uint64 `protobuf:"varint,9,opt,name=watchdog_resets,proto3" json:"watchdog_resets,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Counters) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Counters) Reset() { *m = Counters{} }

// String implements proto.Message.
func (m *Counters) String() string { return proto.CompactTextString(m) }

// Meta describes a bridge, published retained.
type Meta struct {
	Bridge    string  `protobuf:"bytes,1,opt,name=bridge,proto3" json:"bridge,omitempty"`
	Frequency float64 `protobuf:"fixed64,2,opt,name=frequency,proto3" json:"frequency,omitempty"`
	Power     int32   `protobuf:"varint,3,opt,name=power,proto3" json:"power,omitempty"`
	Preset    string  `protobuf:"bytes,4,opt,name=preset,proto3" json:"preset,omitempty"`
	Registers []byte  `protobuf:"bytes,5,opt,name=registers,proto3" json:"registers,omitempty"`
	Checksum  string  `protobuf:"bytes,6,opt,name=checksum,proto3" json:"checksum,omitempty"`
	Started   int64   `protobuf:"varint,7,opt,name=started,proto3" json:"started,omitempty"`
	Online    bool    `protobuf:"varint,8,opt,name=online,proto3" json:"online,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Meta) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Meta) Reset() { *m = Meta{} }

// String implements proto.Message.
func (m *Meta) String() string { return proto.CompactTextString(m) }
