// Package stream carries radio units over a byte stream.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/robotalks/kiss.go/pkg/port"
)

// DefaultMaxPacketSize limits the size announced by a length prefix.
const DefaultMaxPacketSize = 4096

// ReadWriter implements port.PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	io.ReadWriter
	MaxPacketSize int
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{ReadWriter: s, MaxPacketSize: DefaultMaxPacketSize}
}

// ReadPacket implements port.PacketReader.
// An oversize packet is skipped and port.ErrOversize returned.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p.ReadWriter, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if p.MaxPacketSize > 0 && int64(size) > int64(p.MaxPacketSize) {
		if _, err := io.CopyN(ioutil.Discard, p.ReadWriter, int64(size)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %d bytes", port.ErrOversize, size)
	}
	pkt := make([]byte, size)
	_, err := io.ReadFull(p.ReadWriter, pkt)
	return pkt, err
}

// WritePacket implements port.PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	_, err := p.Write(buf)
	return err
}

// HardReset implements port.Resetter if the stream supports it.
func (p *ReadWriter) HardReset() error {
	if r, ok := p.ReadWriter.(port.Resetter); ok {
		return r.HardReset()
	}
	return nil
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
