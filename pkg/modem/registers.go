package modem

import "fmt"

// Register masks.
const (
	maskBandwidth      = 0xf0 // REG-0x1D
	maskCodingRate     = 0x0e // REG-0x1D
	bitImplicitHeader  = 0x01 // REG-0x1D
	maskSpreading      = 0xf0 // REG-0x1E
	bitTxContinuous    = 0x08 // REG-0x1E
	bitPayloadCRC      = 0x04 // REG-0x1E
	bitMobileNode      = 0x08 // REG-0x26
	bitAutoGainControl = 0x04 // REG-0x26
)

// bandwidth in Hz, indexed by REG-0x1D bit 7-4.
var bandwidths = []int{7800, 10400, 15600, 20800, 31250, 41700, 62500, 125000, 250000, 500000}

// Bandwidth returns the signal bandwidth in Hz.
func (r Registers) Bandwidth() (int, error) {
	idx := int(r[0]&maskBandwidth) >> 4
	if idx >= len(bandwidths) {
		return 0, fmt.Errorf("invalid bandwidth bits 0x%02x", r[0]&maskBandwidth)
	}
	return bandwidths[idx], nil
}

// CodingRate returns the denominator of the 4/x coding rate.
func (r Registers) CodingRate() (int, error) {
	v := int(r[0]&maskCodingRate) >> 1
	if v < 1 || v > 4 {
		return 0, fmt.Errorf("invalid coding rate bits 0x%02x", r[0]&maskCodingRate)
	}
	return 4 + v, nil
}

// ImplicitHeader tells if the implicit header mode is on.
func (r Registers) ImplicitHeader() bool {
	return r[0]&bitImplicitHeader != 0
}

// SpreadingFactor returns the spreading factor as log2(chips/symbol).
func (r Registers) SpreadingFactor() (int, error) {
	sf := int(r[1]&maskSpreading) >> 4
	if sf < 6 || sf > 12 {
		return 0, fmt.Errorf("invalid spreading factor bits 0x%02x", r[1]&maskSpreading)
	}
	return sf, nil
}

// ChipsPerSymbol returns 2^SF.
func (r Registers) ChipsPerSymbol() (int, error) {
	sf, err := r.SpreadingFactor()
	if err != nil {
		return 0, err
	}
	return 1 << uint(sf), nil
}

// TxContinuous tells if TX continuous mode is on.
func (r Registers) TxContinuous() bool {
	return r[1]&bitTxContinuous != 0
}

// PayloadCRC tells if the radio checks payload CRC on air.
func (r Registers) PayloadCRC() bool {
	return r[1]&bitPayloadCRC != 0
}

// MobileNode tells if the low data rate optimization for mobile nodes is on.
func (r Registers) MobileNode() bool {
	return r[2]&bitMobileNode != 0
}

// AutoGainControl tells if the LNA gain is set by the internal AGC loop.
func (r Registers) AutoGainControl() bool {
	return r[2]&bitAutoGainControl != 0
}

// Validate checks all multi-bit fields decode.
func (r Registers) Validate() error {
	if _, err := r.Bandwidth(); err != nil {
		return err
	}
	if _, err := r.CodingRate(); err != nil {
		return err
	}
	_, err := r.SpreadingFactor()
	return err
}

// Describe renders the decoded fields for humans.
func (r Registers) Describe() string {
	bw, _ := r.Bandwidth()
	cr, _ := r.CodingRate()
	sf, _ := r.SpreadingFactor()
	s := fmt.Sprintf("bw=%.1fkHz cr=4/%d sf=%d", float64(bw)/1000, cr, sf)
	if r.ImplicitHeader() {
		s += " implicit-header"
	}
	if r.PayloadCRC() {
		s += " crc"
	}
	if r.TxContinuous() {
		s += " continuous"
	}
	if r.MobileNode() {
		s += " mobile"
	}
	if r.AutoGainControl() {
		s += " agc"
	}
	return s
}
