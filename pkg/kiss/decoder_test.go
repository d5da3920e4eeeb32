package kiss

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/kiss.go/pkg/packet"
)

type decoderTestSequence struct {
	in     []byte
	frames []Frame
	errs   []error
}

type decoderTestSequenceBuilder struct {
	seq []decoderTestSequence
}

func decoderTestSequences() *decoderTestSequenceBuilder {
	return &decoderTestSequenceBuilder{}
}

func (b *decoderTestSequenceBuilder) on(in ...byte) *decoderTestSequenceBuilder {
	b.seq = append(b.seq, decoderTestSequence{in: in})
	return b
}

func (b *decoderTestSequenceBuilder) frame(cmd Command, data ...byte) *decoderTestSequenceBuilder {
	s := &b.seq[len(b.seq)-1]
	s.frames = append(s.frames, Frame{Command: cmd, Data: data})
	return b
}

func (b *decoderTestSequenceBuilder) fails(err error) *decoderTestSequenceBuilder {
	s := &b.seq[len(b.seq)-1]
	s.errs = append(s.errs, err)
	return b
}

func (b *decoderTestSequenceBuilder) build() []decoderTestSequence {
	return b.seq
}

func TestDecoder(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		seq      []decoderTestSequence
	}{
		{
			name: "data frame",
			seq: decoderTestSequences().
				on(FEND, 0x00, 0x41, 0x42, FEND).frame(0x00, 0x41, 0x42).
				build(),
		},
		{
			name: "idle delimiters",
			seq: decoderTestSequences().
				on(FEND, FEND, FEND, FEND).
				on(FEND).
				build(),
		},
		{
			name: "sync padding between frames",
			seq: decoderTestSequences().
				on(FEND, FEND, 0x00, 0x01, FEND, FEND, FEND, 0x10, 0x02, FEND).
				frame(0x00, 0x01).frame(0x10, 0x02).
				build(),
		},
		{
			name: "leading FEND optional",
			seq: decoderTestSequences().
				on(0x00, 0x01, 0x02, FEND).frame(0x00, 0x01, 0x02).
				build(),
		},
		{
			name: "escaped bytes",
			seq: decoderTestSequences().
				on(FEND, 0x00, FESC, TFEND, 0x33, FESC, TFESC, FEND).frame(0x00, FEND, 0x33, FESC).
				build(),
		},
		{
			name: "transposed bytes unescaped are literal",
			seq: decoderTestSequences().
				on(FEND, 0x00, TFEND, TFESC, FEND).frame(0x00, TFEND, TFESC).
				build(),
		},
		{
			name: "command only",
			seq: decoderTestSequences().
				on(FEND, 0x01, FEND).frame(0x01).
				build(),
		},
		{
			name: "split across calls",
			seq: decoderTestSequences().
				on(FEND, 0x00, 0x41).
				on(FESC).
				on(TFESC, 0x42).
				on(FEND).frame(0x00, 0x41, FESC, 0x42).
				build(),
		},
		{
			name: "malformed escape recovers",
			seq: decoderTestSequences().
				on(FEND, 0x00, 0x41, FESC, 0x11, 0x42, 0x43, FEND).fails(ErrMalformedEscape).
				on(FEND, 0x00, 0x44, FEND).frame(0x00, 0x44).
				build(),
		},
		{
			name: "tail of bad frame is not a frame",
			seq: decoderTestSequences().
				on(FEND, 0x00, FESC, 0x00, 0x99, 0x98, FEND, 0x00, 0x45, FEND).
				fails(ErrMalformedEscape).frame(0x00, 0x45).
				build(),
		},
		{
			name: "FEND after escape closes frame",
			seq: decoderTestSequences().
				on(FEND, 0x00, 0x41, FESC, FEND).fails(ErrMalformedEscape).
				on(0x00, 0x46, FEND).frame(0x00, 0x46).
				build(),
		},
		{
			name:     "exactly at capacity",
			capacity: 4,
			seq: decoderTestSequences().
				on(FEND, 0x00, 1, 2, 3, 4, FEND).frame(0x00, 1, 2, 3, 4).
				build(),
		},
		{
			name:     "one beyond capacity",
			capacity: 4,
			seq: decoderTestSequences().
				on(FEND, 0x00, 1, 2, 3, 4, 5, 6, FEND).fails(ErrFrameTooLarge).
				on(FEND, 0x00, 7, FEND).frame(0x00, 7).
				build(),
		},
		{
			name:     "escaped byte beyond capacity",
			capacity: 1,
			seq: decoderTestSequences().
				on(FEND, 0x00, 1, FESC, TFEND, FEND).fails(ErrFrameTooLarge).
				build(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			capacity := tc.capacity
			if capacity == 0 {
				capacity = 64
			}
			buf := packet.NewBuffer(capacity, 0)
			d := NewDecoder(buf)
			for n, s := range tc.seq {
				var frames []Frame
				var errs []error
				for _, b := range s.in {
					r := d.Decode(b)
					if r.Err != nil {
						errs = append(errs, r.Err)
						require.Zerof(t, buf.Len(), "seq[%d]: buffer not cleared on error", n)
					}
					if r.Complete {
						frames = append(frames, Frame{Command: r.Command, Data: append([]byte(nil), buf.Bytes()...)})
						buf.Reset()
					}
				}
				require.Equalf(t, len(s.frames), len(frames), "seq[%d] frames", n)
				for i := range s.frames {
					require.Equalf(t, s.frames[i].Command, frames[i].Command, "seq[%d].frame[%d] command", n, i)
					if len(s.frames[i].Data) == 0 {
						require.Emptyf(t, frames[i].Data, "seq[%d].frame[%d] data", n, i)
					} else {
						require.Equalf(t, s.frames[i].Data, frames[i].Data, "seq[%d].frame[%d] data", n, i)
					}
				}
				require.Equalf(t, s.errs, errs, "seq[%d] errors", n)
			}
		})
	}
}

func TestDecoderReset(t *testing.T) {
	buf := packet.NewBuffer(16, 0)
	d := NewDecoder(buf)
	require.False(t, d.InFrame())
	for _, b := range []byte{FEND, 0x00, 0x41, FESC} {
		d.Decode(b)
	}
	require.True(t, d.InFrame())
	d.Reset()
	require.False(t, d.InFrame())
	require.Zero(t, buf.Len())
	frames, errs := DecodeAll(buf, []byte{0x00, 0x42, FEND})
	require.Empty(t, errs)
	require.Equal(t, []Frame{{Command: 0x00, Data: []byte{0x42}}}, frames)
}

func TestRoundTrip(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	payloads := [][]byte{
		{},
		{FEND},
		{FESC},
		{FEND, FESC, TFEND, TFESC},
		bytes.Repeat([]byte{FEND}, 32),
		bytes.Repeat([]byte{FESC, TFESC}, 16),
		all,
	}
	for n, p := range payloads {
		t.Run(fmt.Sprintf("payload-%d", n), func(t *testing.T) {
			buf := packet.NewBuffer(len(p), 0)
			frames, errs := DecodeAll(buf, Encode(DataCommand(0), p))
			require.Empty(t, errs)
			require.Len(t, frames, 1)
			require.Equal(t, DataCommand(0), frames[0].Command)
			require.Equal(t, p, frames[0].Data)
		})
	}
}
