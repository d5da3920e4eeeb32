package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var checkInput = []byte("123456789")

// mkissFlex is the table-free FlexNet CRC: each step XORs the
// reflected CCITT entry of the index with 0x0f87.
func mkissFlex(p []byte) uint16 {
	crc := uint16(0xffff)
	for _, b := range p {
		i := crc>>8 ^ uint16(b)
		entry := i
		for n := 0; n < 8; n++ {
			if entry&1 != 0 {
				entry = entry>>1 ^ 0x8408
			} else {
				entry >>= 1
			}
		}
		crc = crc<<8 ^ entry ^ 0x0f87
	}
	return crc
}

func TestPresetCheckValues(t *testing.T) {
	testCases := []struct {
		name   string
		expect uint16
	}{
		{"flexnet", 0x9fb5},
		{"cms", 0xaee7},
		{"ccitt-false", 0x29b1},
		{"xmodem", 0x31c3},
		{"kermit", 0x2189},
		{"modbus", 0x4b37},
		{"x25", 0x906e},
		{"arc", 0xbb3d},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := MustNew(tc.name)
			require.Equal(t, tc.expect, u.Sum(checkInput))
		})
	}
}

func TestFlexNetMatchesMkiss(t *testing.T) {
	u := MustNew(DefaultPreset)
	inputs := [][]byte{
		nil,
		{0x00},
		[]byte("AB"),
		{0xc0, 0xdb, 0xdc, 0xdd},
		checkInput,
		[]byte("The quick brown fox jumps over the lazy dog"),
	}
	for _, in := range inputs {
		require.Equal(t, mkissFlex(in), u.Sum(in), "input %x", in)
	}
	require.Equal(t, uint16(0x73f7), u.Sum([]byte("AB")))
}

func TestFlexNetResidue(t *testing.T) {
	u := MustNew(DefaultPreset)
	for _, payload := range [][]byte{nil, []byte("hello"), checkInput} {
		unit := u.AppendTrailer(append([]byte(nil), payload...), payload)
		require.Equal(t, uint16(FlexNetResidue), u.Sum(unit), "payload %q", payload)
	}
}

func TestPresetsDeclareCheck(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := Lookup(name)
		require.NoError(t, err)
		require.Equal(t, name, p.Name)
		require.Equal(t, p.Check, MustNew(name).Sum(checkInput), name)
	}
}

func TestIncrementalMatchesOnePass(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			u := MustNew(name)
			acc := u.Init()
			for _, b := range checkInput {
				acc = u.Update(acc, b)
			}
			require.Equal(t, u.Sum(checkInput), u.Finalize(acc))

			acc = u.UpdateBytes(u.Init(), checkInput[:4])
			acc = u.UpdateBytes(acc, checkInput[4:])
			require.Equal(t, u.Sum(checkInput), u.Finalize(acc))
		})
	}
}

func TestTrailerAndVerify(t *testing.T) {
	u := MustNew(DefaultPreset)
	payload := []byte{0x58, 0x59}
	unit := u.AppendTrailer(append([]byte(nil), payload...), payload)
	require.Len(t, unit, len(payload)+Size)
	sum := u.Sum(payload)
	require.Equal(t, byte(sum>>8), unit[2])
	require.Equal(t, byte(sum), unit[3])
	require.True(t, u.Validate(payload, sum))
	require.False(t, u.Validate(payload, sum^1))

	got, ok := u.Verify(unit)
	require.True(t, ok)
	require.Equal(t, payload, got)

	unit[3] ^= 0xff
	_, ok = u.Verify(unit)
	require.False(t, ok)

	_, ok = u.Verify([]byte{0x01})
	require.False(t, ok)
}

func TestSingleBitCorruptionDetected(t *testing.T) {
	u := MustNew(DefaultPreset)
	payload := []byte("KISS bridge single bit test payload")
	unit := u.AppendTrailer(append([]byte(nil), payload...), payload)
	for off := range unit {
		for bit := uint(0); bit < 8; bit++ {
			corrupt := append([]byte(nil), unit...)
			corrupt[off] ^= 1 << bit
			_, ok := u.Verify(corrupt)
			require.Falsef(t, ok, "flip at byte %d bit %d undetected", off, bit)
		}
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup(" FlexNet ")
	require.NoError(t, err)
	require.Equal(t, "flexnet", p.Name)

	p, err = Lookup("")
	require.NoError(t, err)
	require.Equal(t, DefaultPreset, p.Name)

	_, err = Lookup("crc32")
	require.Equal(t, ErrUnknownPreset, err)

	_, err = New("crc32")
	require.Equal(t, ErrUnknownPreset, err)
	require.Panics(t, func() { MustNew("crc32") })
}
