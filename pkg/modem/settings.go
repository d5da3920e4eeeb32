package modem

import (
	"errors"
	"fmt"
)

// Settings is the complete radio configuration.
type Settings struct {
	// Frequency is the center frequency in MHz.
	Frequency float64
	// Power is the transmit power in dBm.
	Power int
	// PreambleLength in symbols, 0 keeps the radio default.
	PreambleLength int
	// ResetPin is the pin wired to the radio reset line.
	ResetPin int
	Preset   Preset
}

// Limits of the RF95 family.
const (
	MinFrequency = 137.0
	MaxFrequency = 1020.0
	MinPower     = 5
	MaxPower     = 23
)

// DefaultSettings returns the shipped configuration.
func DefaultSettings() Settings {
	return Settings{
		Frequency: 434.0,
		Power:     5,
		ResetPin:  7,
		Preset:    DefaultPreset,
	}
}

// Configurer is implemented by radios that can be (re)programmed.
type Configurer interface {
	Configure(Settings) error
}

// Validate checks the settings are in range.
func (s Settings) Validate() error {
	if s.Frequency < MinFrequency || s.Frequency > MaxFrequency {
		return fmt.Errorf("frequency %.3f MHz out of range", s.Frequency)
	}
	if s.Power < MinPower || s.Power > MaxPower {
		return fmt.Errorf("power %d dBm out of range", s.Power)
	}
	if s.PreambleLength < 0 || s.PreambleLength > 0xffff {
		return fmt.Errorf("invalid preamble length %d", s.PreambleLength)
	}
	if s.Preset.Name == "" {
		return errors.New("modem preset missing")
	}
	if err := s.Preset.Registers.Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", s.Preset.Name, err)
	}
	return nil
}

// Channel is a short identifier of frequency and preset.
// Radios only hear each other on the same channel.
func (s Settings) Channel() string {
	return fmt.Sprintf("%d-%02x%02x%02x", int(s.Frequency*1000+0.5),
		s.Preset.Registers[0], s.Preset.Registers[1], s.Preset.Registers[2])
}

// String implements fmt.Stringer.
func (s Settings) String() string {
	return fmt.Sprintf("%.3fMHz %ddBm %s (%s)", s.Frequency, s.Power, s.Preset.Name, s.Preset.Registers.Describe())
}
