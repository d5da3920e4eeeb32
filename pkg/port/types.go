// Package port defines the transport capabilities used by the bridge
// and adapts byte streams and packet transports to them.
package port

import (
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrClosed indicates the port is gone.
	ErrClosed = errors.New("port closed")
	// ErrOversize indicates a transport dropped a unit too large to accept.
	ErrOversize = errors.New("unit oversize")
)

// readerStopped converts the error ending a background reader into
// what reads report from then on. Nothing is read after the reader
// stops, so the error always matches io.EOF or ErrClosed.
func readerStopped(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, ErrClosed) {
		return err
	}
	return fmt.Errorf("%w: reader stopped: %v", ErrClosed, err)
}

// Serial is the host side byte link.
type Serial interface {
	// Peek returns the number of bytes ready to read.
	Peek() int
	// ReadInto reads up to len(p) bytes, waiting at most timeout.
	// A result of 0, nil means the timeout expired.
	ReadInto(p []byte, timeout time.Duration) (int, error)
	Write(p []byte) error
}

// Radio is the packet radio. Reads and writes are whole units.
type Radio interface {
	// Peek tells if a unit is ready.
	Peek() bool
	// ReadInto reads one unit. A unit longer than p is dropped
	// and io.ErrShortBuffer returned.
	ReadInto(p []byte) (int, error)
	Write(p []byte) error
	HardReset() error
}

// Resetter is implemented by transports able to hard reset the radio.
type Resetter interface {
	HardReset() error
}

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
