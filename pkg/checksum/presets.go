package checksum

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/sigurn/crc16"
)

// ErrUnknownPreset indicates the preset name is not in the catalog.
var ErrUnknownPreset = errors.New("unknown checksum preset")

// Algorithm is a CRC-16 computation split into seed, update and
// completion so it can run incrementally.
type Algorithm interface {
	Init() uint16
	Update(crc uint16, p []byte) uint16
	Complete(crc uint16) uint16
}

// Preset is a named checksum algorithm.
type Preset struct {
	Name string
	// Check is the code of "123456789".
	Check uint16
	New   func() Algorithm
}

// DefaultPreset is the algorithm used on air unless configured otherwise.
// It must match what peer firmware validates.
const DefaultPreset = "flexnet"

// FlexNetResidue is the FlexNet code of any payload followed by its
// own trailer.
const FlexNetResidue = 0x7070

// FlexNet is the CRC-16 of mkiss FlexNet framing: seed 0xffff, MSB
// first shifting over a table derived from the reflected CCITT table
// XOR 0x0f87. crc16.Params can't describe it.
var FlexNet = Preset{Name: "flexnet", Check: 0x9fb5, New: newFlexNet}

// CMS is poly 0x8005, seed 0xffff, no reflection, no final XOR.
var CMS = crc16.Params{
	Poly:   0x8005,
	Init:   0xffff,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x0000,
	Check:  0xaee7,
	Name:   "CRC-16/CMS",
}

// Presets is the catalog of supported algorithms.
var Presets = map[string]Preset{
	"flexnet":     FlexNet,
	"cms":         tablePreset("cms", CMS),
	"ccitt-false": tablePreset("ccitt-false", crc16.CRC16_CCITT_FALSE),
	"xmodem":      tablePreset("xmodem", crc16.CRC16_XMODEM),
	"kermit":      tablePreset("kermit", crc16.CRC16_KERMIT),
	"modbus":      tablePreset("modbus", crc16.CRC16_MODBUS),
	"x25":         tablePreset("x25", crc16.CRC16_X_25),
	"arc":         tablePreset("arc", crc16.CRC16_ARC),
}

// Lookup finds a preset by name, case-insensitive.
func Lookup(name string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultPreset
	}
	p, ok := Presets[key]
	if !ok {
		return Preset{}, ErrUnknownPreset
	}
	return p, nil
}

// PresetNames lists the catalog in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type tableAlgorithm struct {
	table *crc16.Table
}

func tablePreset(name string, params crc16.Params) Preset {
	return Preset{
		Name:  name,
		Check: params.Check,
		New: func() Algorithm {
			return &tableAlgorithm{table: crc16.MakeTable(params)}
		},
	}
}

func (a *tableAlgorithm) Init() uint16 {
	return crc16.Init(a.table)
}

func (a *tableAlgorithm) Update(crc uint16, p []byte) uint16 {
	return crc16.Update(crc, p, a.table)
}

func (a *tableAlgorithm) Complete(crc uint16) uint16 {
	return crc16.Complete(crc, a.table)
}

type flexAlgorithm struct {
	table *[256]uint16
}

var (
	flexTable     [256]uint16
	flexTableOnce sync.Once
)

func newFlexNet() Algorithm {
	flexTableOnce.Do(func() {
		// KERMIT of a single byte is the reflected CCITT table entry.
		kermit := crc16.MakeTable(crc16.CRC16_KERMIT)
		for i := range flexTable {
			flexTable[i] = crc16.Checksum([]byte{byte(i)}, kermit) ^ 0x0f87
		}
	})
	return &flexAlgorithm{table: &flexTable}
}

func (a *flexAlgorithm) Init() uint16 {
	return 0xffff
}

func (a *flexAlgorithm) Update(crc uint16, p []byte) uint16 {
	for _, b := range p {
		crc = crc<<8 ^ a.table[byte(crc>>8)^b]
	}
	return crc
}

func (a *flexAlgorithm) Complete(crc uint16) uint16 {
	return crc
}
