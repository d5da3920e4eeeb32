package modem

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPreset indicates the named modem preset is not in the catalog.
var ErrUnknownPreset = errors.New("unknown modem preset")

// Registers is the value set of {REG-0x1D, REG-0x1E, REG-0x26}.
type Registers [3]byte

// Preset is a named modem configuration.
type Preset struct {
	Name      string
	Registers Registers
}

// Named presets.
var (
	Bw125Cr45Sf128   = Preset{"Bw125Cr45Sf128", Registers{0x72, 0x74, 0x00}}
	Bw500Cr45Sf128   = Preset{"Bw500Cr45Sf128", Registers{0x92, 0x74, 0x00}}
	Bw31_25Cr48Sf512 = Preset{"Bw31_25Cr48Sf512", Registers{0x48, 0x94, 0x00}}
	Bw125Cr48Sf4096  = Preset{"Bw125Cr48Sf4096", Registers{0x78, 0xc4, 0x00}}
	Bw250Cr48Sf1024  = Preset{"Bw250Cr48Sf1024", Registers{0x88, 0xa4, 0x00}}
	PW7_8Cr48Sf4096  = Preset{"PW7_8Cr48Sf4096", Registers{0x08, 0xc4, 0x00}}
)

// DefaultPreset is the long range, slow preset.
var DefaultPreset = PW7_8Cr48Sf4096

// Presets is the catalog indexed by lower-cased name.
var Presets = map[string]Preset{}

func init() {
	for _, p := range []Preset{
		Bw125Cr45Sf128,
		Bw500Cr45Sf128,
		Bw31_25Cr48Sf512,
		Bw125Cr48Sf4096,
		Bw250Cr48Sf1024,
		PW7_8Cr48Sf4096,
	} {
		Presets[strings.ToLower(p.Name)] = p
	}
}

// Lookup finds a preset by name, case-insensitive.
// Empty name selects DefaultPreset.
func Lookup(name string) (Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultPreset, nil
	}
	if p, ok := Presets[name]; ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// PresetNames lists catalog names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for _, p := range Presets {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// String implements fmt.Stringer.
func (p Preset) String() string {
	return fmt.Sprintf("%s{%02x %02x %02x}", p.Name, p.Registers[0], p.Registers[1], p.Registers[2])
}
