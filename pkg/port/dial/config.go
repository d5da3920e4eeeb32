package dial

import (
	"flag"
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// Config defines which ports to open.
type Config struct {
	// Serial is the host link device, see ParseUART.
	Serial string
	// Radio is the radio URL, see Radio.
	Radio string
	// ID identifies the bridge, defaults to MachineID.
	ID string
}

var defaultConfig = Config{
	Serial: "/dev/ttyUSB0",
	Radio:  "mqtt://localhost:1883/kiss/",
}

func init() {
	if val := os.Getenv("KISS_SERIAL"); val != "" {
		defaultConfig.Serial = val
	}
	if val := os.Getenv("KISS_RADIO"); val != "" {
		defaultConfig.Radio = val
	}
	if val := os.Getenv("KISS_BRIDGE_ID"); val != "" {
		defaultConfig.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Serial, "serial", defaultConfig.Serial, "Host serial device, e.g. /dev/ttyUSB0 or uart:///dev/ttyUSB0?baud=9600.")
	flag.StringVar(&defaultConfig.Radio, "radio", defaultConfig.Radio, "Radio URL: uart://, tcp://, mqtt:// or ws://.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Bridge ID, default is derived from machine ID.")
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

// BridgeID returns ID or the MachineID.
func (c *Config) BridgeID() string {
	if c.ID != "" {
		return c.ID
	}
	return MachineID()
}

// MachineID identifies this machine, stable across restarts.
func MachineID() string {
	id, err := machineid.ProtectedID("kiss.go")
	if err != nil {
		glog.Warningf("machine id: %v", err)
		if host, _ := os.Hostname(); host != "" {
			return host
		}
		return "kiss"
	}
	return id[:12]
}
