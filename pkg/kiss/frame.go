package kiss

import (
	"fmt"
	"io"
)

// Special bytes.
const (
	FEND  byte = 0xc0 // frame delimiter
	FESC  byte = 0xdb // escape
	TFEND byte = 0xdc // transposed FEND
	TFESC byte = 0xdd // transposed FESC
)

// Code is the command code in the low nibble of the command byte.
type Code byte

// Command codes.
const (
	CodeData        Code = 0x0
	CodeTXDelay     Code = 0x1
	CodePersistence Code = 0x2
	CodeSlotTime    Code = 0x3
	CodeTXTail      Code = 0x4
	CodeFullDuplex  Code = 0x5
	CodeSetHardware Code = 0x6
)

// String implements fmt.Stringer.
func (c Code) String() string {
	switch c {
	case CodeData:
		return "Data"
	case CodeTXDelay:
		return "TXDelay"
	case CodePersistence:
		return "Persistence"
	case CodeSlotTime:
		return "SlotTime"
	case CodeTXTail:
		return "TXTail"
	case CodeFullDuplex:
		return "FullDuplex"
	case CodeSetHardware:
		return "SetHardware"
	}
	return fmt.Sprintf("Code(%d)", byte(c))
}

// Command is the first byte of a frame.
type Command byte

// CmdReturn exits KISS mode. It is the only command using the whole byte.
const CmdReturn Command = 0xff

// NewCommand composes the command byte.
func NewCommand(port uint8, code Code) Command {
	return Command((port&0x0f)<<4 | byte(code)&0x0f)
}

// DataCommand is the command byte of a data frame on port.
func DataCommand(port uint8) Command {
	return NewCommand(port, CodeData)
}

// Port extracts the TNC port.
func (c Command) Port() uint8 {
	return uint8(c >> 4)
}

// Code extracts the command code.
func (c Command) Code() Code {
	return Code(c & 0x0f)
}

// IsReturn tells if this is the exit-KISS command.
func (c Command) IsReturn() bool {
	return c == CmdReturn
}

// IsData tells if this is a data frame.
func (c Command) IsData() bool {
	return !c.IsReturn() && c.Code() == CodeData
}

// Frame is a de-stuffed KISS frame.
type Frame struct {
	Command Command
	Data    []byte
}

// MaxEncodedLen is the worst-case wire size of a frame with n payload bytes.
func MaxEncodedLen(n int) int {
	// two FENDs, command byte, every byte escaped
	return 2 + 2*(n+1)
}

// AppendFrame appends the wire representation of a frame to dst.
func AppendFrame(dst []byte, cmd Command, payload []byte) []byte {
	dst = append(dst, FEND)
	dst = appendStuffed(dst, byte(cmd))
	for _, b := range payload {
		dst = appendStuffed(dst, b)
	}
	return append(dst, FEND)
}

func appendStuffed(dst []byte, b byte) []byte {
	switch b {
	case FEND:
		return append(dst, FESC, TFEND)
	case FESC:
		return append(dst, FESC, TFESC)
	}
	return append(dst, b)
}

// Encode returns the wire representation of a frame.
func Encode(cmd Command, payload []byte) []byte {
	return AppendFrame(make([]byte, 0, MaxEncodedLen(len(payload))), cmd, payload)
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() []byte {
	return Encode(f.Command, f.Data)
}

// WriteTo writes encoded bytes.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}
