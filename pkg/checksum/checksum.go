// Package checksum computes the 16-bit integrity trailer carried by
// frames crossing the radio boundary.
//
// The trailer protects payloads against corruption introduced between
// the host link and the radio modem (e.g. buffer handling bugs), on
// top of the modem's own CRC. It is appended high byte first.
package checksum

import (
	"errors"
)

// Size is the trailer length in bytes.
const Size = 2

// ErrChecksumMismatch indicates the trailer doesn't match the payload.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Accumulator is the running state of a checksum computation.
type Accumulator uint16

// Unit computes checksums for a pinned preset.
// The zero value is not usable, use New or MustNew.
type Unit struct {
	preset Preset
	algo   Algorithm
}

// New creates a Unit for the named preset.
func New(name string) (*Unit, error) {
	p, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewWithPreset(p), nil
}

// MustNew is New but panics on unknown preset.
func MustNew(name string) *Unit {
	u, err := New(name)
	if err != nil {
		panic(err)
	}
	return u
}

// NewWithPreset creates a Unit from a Preset.
func NewWithPreset(p Preset) *Unit {
	return &Unit{preset: p, algo: p.New()}
}

// Preset returns the pinned preset.
func (u *Unit) Preset() Preset {
	return u.preset
}

// Init returns the seeded accumulator.
func (u *Unit) Init() Accumulator {
	return Accumulator(u.algo.Init())
}

// Update feeds one byte.
func (u *Unit) Update(acc Accumulator, b byte) Accumulator {
	one := [1]byte{b}
	return Accumulator(u.algo.Update(uint16(acc), one[:]))
}

// UpdateBytes feeds a span of bytes. Feeding a span at once or byte by
// byte gives the same accumulator.
func (u *Unit) UpdateBytes(acc Accumulator, p []byte) Accumulator {
	return Accumulator(u.algo.Update(uint16(acc), p))
}

// Finalize produces the 16-bit code.
func (u *Unit) Finalize(acc Accumulator) uint16 {
	return u.algo.Complete(uint16(acc))
}

// Sum computes the code of p in one pass.
func (u *Unit) Sum(p []byte) uint16 {
	return u.Finalize(u.UpdateBytes(u.Init(), p))
}

// Trailer returns the encoded trailer for p.
func (u *Unit) Trailer(p []byte) [Size]byte {
	sum := u.Sum(p)
	return [Size]byte{byte(sum >> 8), byte(sum)}
}

// AppendTrailer appends the trailer of p to dst.
func (u *Unit) AppendTrailer(dst, p []byte) []byte {
	tr := u.Trailer(p)
	return append(dst, tr[:]...)
}

// Validate reports whether trailer is the checksum of payload.
func (u *Unit) Validate(payload []byte, trailer uint16) bool {
	return u.Sum(payload) == trailer
}

// Verify splits a unit into payload and trailer and validates it.
// Units shorter than the trailer are never valid.
func (u *Unit) Verify(unit []byte) ([]byte, bool) {
	if len(unit) < Size {
		return nil, false
	}
	n := len(unit) - Size
	trailer := uint16(unit[n])<<8 | uint16(unit[n+1])
	if !u.Validate(unit[:n], trailer) {
		return nil, false
	}
	return unit[:n], true
}
