package kiss

import (
	"fmt"
	"time"
)

// ParamUnit is the time unit of TXDelay, SlotTime and TXTail values.
const ParamUnit = 10 * time.Millisecond

// Params are the TNC parameters a host sets with non-data commands.
type Params struct {
	TXDelay     time.Duration
	Persistence byte
	SlotTime    time.Duration
	TXTail      time.Duration
	FullDuplex  bool
}

// DefaultParams are the values recommended by the KISS paper.
func DefaultParams() Params {
	return Params{
		TXDelay:     50 * ParamUnit,
		Persistence: 63,
		SlotTime:    10 * ParamUnit,
	}
}

// Apply updates the parameters from a command frame.
// SetHardware is TNC specific and accepted without effect.
func (p *Params) Apply(cmd Command, data []byte) error {
	if cmd.IsReturn() {
		return nil
	}
	code := cmd.Code()
	switch code {
	case CodeData:
		return nil
	case CodeSetHardware:
		return nil
	case CodeTXDelay, CodePersistence, CodeSlotTime, CodeTXTail, CodeFullDuplex:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedCommand, code)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %v", ErrShortParam, code)
	}
	v := data[0]
	switch code {
	case CodeTXDelay:
		p.TXDelay = time.Duration(v) * ParamUnit
	case CodePersistence:
		p.Persistence = v
	case CodeSlotTime:
		p.SlotTime = time.Duration(v) * ParamUnit
	case CodeTXTail:
		p.TXTail = time.Duration(v) * ParamUnit
	case CodeFullDuplex:
		p.FullDuplex = v != 0
	}
	return nil
}

// ParamFrame builds the command frame setting a parameter, the inverse of Apply.
func ParamFrame(port uint8, code Code, value byte) Frame {
	return Frame{Command: NewCommand(port, code), Data: []byte{value}}
}
