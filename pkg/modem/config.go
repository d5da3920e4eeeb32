package modem

import (
	"flag"
	"os"
	"strconv"
)

// Config defines the modem options.
type Config struct {
	Frequency      float64
	Power          int
	PreambleLength int
	ResetPin       int
	Preset         string
}

var defaultConfig = Config{
	Frequency: 434.0,
	Power:     5,
	ResetPin:  7,
	Preset:    DefaultPreset.Name,
}

func init() {
	if val := os.Getenv("KISS_MODEM_PRESET"); val != "" {
		defaultConfig.Preset = val
	}
	if val, err := strconv.ParseFloat(os.Getenv("KISS_FREQUENCY"), 64); err == nil {
		defaultConfig.Frequency = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Frequency, "freq", defaultConfig.Frequency, "Radio frequency in MHz.")
	flag.IntVar(&defaultConfig.Power, "power", defaultConfig.Power, "Transmit power in dBm.")
	flag.IntVar(&defaultConfig.PreambleLength, "preamble", defaultConfig.PreambleLength, "Preamble length, 0 for radio default.")
	flag.IntVar(&defaultConfig.ResetPin, "reset-pin", defaultConfig.ResetPin, "Radio reset pin.")
	flag.StringVar(&defaultConfig.Preset, "modem", defaultConfig.Preset, "Modem preset name.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Settings builds validated Settings.
func (c *Config) Settings() (Settings, error) {
	preset, err := Lookup(c.Preset)
	if err != nil {
		return Settings{}, err
	}
	s := Settings{
		Frequency:      c.Frequency,
		Power:          c.Power,
		PreambleLength: c.PreambleLength,
		ResetPin:       c.ResetPin,
		Preset:         preset,
	}
	return s, s.Validate()
}
