// Package packet provides the fixed-capacity buffers used to stage
// in-flight payloads between the serial and radio sides.
package packet

import (
	"errors"
	"io"
)

// ErrFrameTooLarge indicates a payload doesn't fit in the buffer.
var ErrFrameTooLarge = errors.New("frame too large")

// Buffer is a byte buffer with a capacity fixed for its lifetime.
// Writes beyond the capacity are rejected, never truncated.
// A small tailroom past the capacity is reserved for a trailer
// (e.g. checksum) so it can be appended in place.
type Buffer struct {
	data     []byte
	capacity int
}

// NewBuffer allocates a Buffer for payloads up to capacity bytes,
// plus tailroom bytes reserved for trailers.
func NewBuffer(capacity, tailroom int) *Buffer {
	if capacity < 0 || tailroom < 0 {
		panic("packet: negative buffer size")
	}
	return &Buffer{
		data:     make([]byte, 0, capacity+tailroom),
		capacity: capacity,
	}
}

// Len returns the fill length.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the payload capacity, excluding tailroom.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Tailroom returns the number of bytes reserved for trailers.
func (b *Buffer) Tailroom() int {
	return cap(b.data) - b.capacity
}

// Bytes returns the buffered bytes. The slice is only valid
// until the next modification of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Reset clears the buffer.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	if len(b.data) >= b.capacity {
		return ErrFrameTooLarge
	}
	b.data = append(b.data, c)
	return nil
}

// Write implements io.Writer; p is written in whole or not at all.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(b.data)+len(p) > b.capacity {
		return 0, ErrFrameTooLarge
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

// AppendTrailer appends bytes using the reserved tailroom.
// The payload must fit in capacity and the trailer in the rest.
func (b *Buffer) AppendTrailer(p []byte) error {
	if len(b.data) > b.capacity || len(b.data)+len(p) > cap(b.data) {
		return ErrFrameTooLarge
	}
	b.data = append(b.data, p...)
	return nil
}

// Truncate keeps only the first n bytes.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.data) {
		panic("packet: truncation out of range")
	}
	b.data = b.data[:n]
}

// Fill resets the buffer and lets read place one whole unit into
// the full backing array (capacity plus tailroom). A read which
// reports io.ErrShortBuffer is translated into ErrFrameTooLarge.
// Units are accepted if the part exceeding capacity fits
// in the tailroom, which is where a trailer is expected.
func (b *Buffer) Fill(read func(p []byte) (int, error)) (int, error) {
	b.data = b.data[:0]
	n, err := read(b.data[:cap(b.data)])
	if errors.Is(err, io.ErrShortBuffer) {
		return 0, ErrFrameTooLarge
	}
	if n < 0 || n > cap(b.data) {
		return 0, ErrFrameTooLarge
	}
	b.data = b.data[:n]
	return n, err
}
