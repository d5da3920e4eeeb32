package bridge

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/kiss.go/pkg/checksum"
	"github.com/robotalks/kiss.go/pkg/modem"
	"github.com/robotalks/kiss.go/pkg/port"
)

// Config defines the bridge options.
type Config struct {
	Port              uint
	MaxPacketSize     int
	SmallPacketSize   int
	BigBufferFor      string
	SerialTimeout     time.Duration
	HeartbeatInterval time.Duration
	WatchdogInterval  time.Duration
	PollInterval      time.Duration
	ChecksumPreset    string
}

var defaultConfig = Config{
	MaxPacketSize:     253,
	BigBufferFor:      "serial",
	SerialTimeout:     10 * time.Millisecond,
	HeartbeatInterval: 500 * time.Millisecond,
	WatchdogInterval:  5 * time.Minute,
	PollInterval:      time.Millisecond,
	ChecksumPreset:    checksum.DefaultPreset,
}

func init() {
	if val := os.Getenv("KISS_CHECKSUM"); val != "" {
		defaultConfig.ChecksumPreset = val
	}
	if val, err := strconv.Atoi(os.Getenv("KISS_MAX_PACKET_SIZE")); err == nil && val > 0 {
		defaultConfig.MaxPacketSize = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.UintVar(&defaultConfig.Port, "kiss-port", defaultConfig.Port, "KISS port forwarded to the radio.")
	flag.IntVar(&defaultConfig.MaxPacketSize, "max-packet", defaultConfig.MaxPacketSize, "Capacity of the big packet buffer.")
	flag.IntVar(&defaultConfig.SmallPacketSize, "small-packet", defaultConfig.SmallPacketSize, "Capacity of the small packet buffer, 0 for max-packet.")
	flag.StringVar(&defaultConfig.BigBufferFor, "big-buffer", defaultConfig.BigBufferFor, "Side using the big buffer: serial or radio.")
	flag.DurationVar(&defaultConfig.SerialTimeout, "serial-timeout", defaultConfig.SerialTimeout, "Serial read timeout.")
	flag.DurationVar(&defaultConfig.HeartbeatInterval, "heartbeat", defaultConfig.HeartbeatInterval, "Heartbeat interval.")
	flag.DurationVar(&defaultConfig.WatchdogInterval, "watchdog", defaultConfig.WatchdogInterval, "Radio reset after no traffic for this long, 0 to disable.")
	flag.DurationVar(&defaultConfig.PollInterval, "poll", defaultConfig.PollInterval, "Idle poll interval.")
	flag.StringVar(&defaultConfig.ChecksumPreset, "checksum", defaultConfig.ChecksumPreset, "Radio checksum preset.")
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

// NewController creates a Controller using the config.
func (c *Config) NewController(serial port.Serial, radio port.Radio, settings modem.Settings) (*Controller, error) {
	unit, err := checksum.New(c.ChecksumPreset)
	if err != nil {
		return nil, err
	}
	dir, err := ParseDirection(c.BigBufferFor)
	if err != nil {
		return nil, err
	}
	if c.Port > 15 {
		return nil, fmt.Errorf("invalid KISS port %d", c.Port)
	}
	ctl := NewController(serial, radio)
	ctl.Port = uint8(c.Port)
	ctl.MaxPacketSize = c.MaxPacketSize
	ctl.SmallPacketSize = c.SmallPacketSize
	ctl.BigBufferFor = dir
	ctl.SerialTimeout = c.SerialTimeout
	ctl.HeartbeatInterval = c.HeartbeatInterval
	ctl.WatchdogInterval = c.WatchdogInterval
	ctl.PollInterval = c.PollInterval
	ctl.Checksum = unit
	ctl.Settings = settings
	return ctl, nil
}
