package kiss

import (
	"github.com/robotalks/kiss.go/pkg/packet"
)

// DecodeResult indicates the result after one decoding step.
type DecodeResult struct {
	// Complete is set when a frame ends; its payload is in the buffer.
	Complete bool
	Command  Command
	// Err is set when the current frame is discarded.
	Err error
}

type decodeState int

const (
	stateIdle    decodeState = iota // waiting for frame content
	stateCommand                    // escape pending on the command byte
	statePayload                    // collecting payload
	stateDiscard                    // dropping bytes up to the next FEND
)

// Decoder de-stuffs serial bytes into a packet.Buffer, one byte at a time.
// It holds at most one frame in flight.
type Decoder struct {
	buf     *packet.Buffer
	state   decodeState
	escaped bool
	command Command
}

// NewDecoder creates a Decoder writing payloads into buf.
func NewDecoder(buf *packet.Buffer) *Decoder {
	return &Decoder{buf: buf}
}

// Buffer returns the payload buffer.
func (d *Decoder) Buffer() *packet.Buffer {
	return d.buf
}

// InFrame tells if a frame is partially decoded.
func (d *Decoder) InFrame() bool {
	return d.state != stateIdle || d.escaped
}

// Reset abandons the in-progress frame.
func (d *Decoder) Reset() {
	d.state, d.escaped, d.command = stateIdle, false, 0
	d.buf.Reset()
}

// Decode consumes one byte.
func (d *Decoder) Decode(b byte) (r DecodeResult) {
	if d.state == stateDiscard {
		if b == FEND {
			d.state = stateIdle
		}
		return
	}

	if d.escaped {
		d.escaped = false
		switch b {
		case TFEND:
			b = FEND
		case TFESC:
			b = FESC
		case FEND:
			// FEND still closes the frame.
			d.Reset()
			r.Err = ErrMalformedEscape
			return
		default:
			return d.discard(ErrMalformedEscape)
		}
		return d.literal(b)
	}

	switch b {
	case FESC:
		d.escaped = true
		if d.state == stateIdle {
			d.state = stateCommand
		}
		return
	case FEND:
		if d.state == stateIdle {
			// idle/sync fill
			return
		}
		r.Complete, r.Command = true, d.command
		d.state, d.command = stateIdle, 0
		return
	}
	return d.literal(b)
}

func (d *Decoder) literal(b byte) (r DecodeResult) {
	switch d.state {
	case stateIdle, stateCommand:
		d.command = Command(b)
		d.state = statePayload
	case statePayload:
		if err := d.buf.WriteByte(b); err != nil {
			return d.discard(err)
		}
	}
	return
}

func (d *Decoder) discard(err error) DecodeResult {
	d.Reset()
	d.state = stateDiscard
	return DecodeResult{Err: err}
}

// DecodeAll decodes a complete byte stream and returns copies of all
// frames and errors in order. It's mainly used for tooling and tests.
func DecodeAll(buf *packet.Buffer, stream []byte) (frames []Frame, errs []error) {
	d := NewDecoder(buf)
	for _, b := range stream {
		r := d.Decode(b)
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
		if r.Complete {
			data := append([]byte{}, buf.Bytes()...)
			frames = append(frames, Frame{Command: r.Command, Data: data})
			buf.Reset()
		}
	}
	return
}
