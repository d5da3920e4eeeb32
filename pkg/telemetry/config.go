package telemetry

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/kiss.go/pkg/port/mqtt"
)

// Config defines telemetry options.
type Config struct {
	// URL of the MQTT broker, e.g. mqtt://localhost:1883/kiss/,
	// empty disables telemetry.
	URL           string
	StatsInterval time.Duration
}

var defaultConfig = Config{
	StatsInterval: 10 * time.Second,
}

func init() {
	if val := os.Getenv("KISS_MQTT_URL"); val != "" {
		defaultConfig.URL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.URL, "mqtt", defaultConfig.URL, "MQTT URL for telemetry.")
	flag.DurationVar(&defaultConfig.StatsInterval, "stats-interval", defaultConfig.StatsInterval, "Interval publishing stats, 0 to disable.")
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

// NewPublisher connects to the broker and creates a Publisher,
// or returns nil when telemetry is disabled.
func (c *Config) NewPublisher(id string) (*Publisher, error) {
	if c.URL == "" {
		return nil, nil
	}
	q, err := mqtt.NewQueueFromURL(c.URL)
	if err != nil {
		return nil, err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p := NewPublisher(q, id)
	p.StatsInterval = c.StatsInterval
	return p, nil
}
