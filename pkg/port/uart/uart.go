// Package uart opens serial devices through go.bug.st/serial.
package uart

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// Defaults.
const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 100 * time.Millisecond
	DefaultResetPulse  = 10 * time.Millisecond
)

// Port is an opened serial device.
// Read returns 0, nil when ReadTimeout expires without data.
// HardReset pulses RTS, which is wired to the radio reset line
// on UART attached modems.
type Port struct {
	serial.Port
	Device     string
	ResetPulse time.Duration
}

// Open opens device at baud, 8N1.
func Open(device string, baud int) (*Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err = p.SetReadTimeout(DefaultReadTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout %s: %w", device, err)
	}
	glog.Infof("UART %s opened at %d baud", device, baud)
	return &Port{Port: p, Device: device, ResetPulse: DefaultResetPulse}, nil
}

// HardReset implements port.Resetter.
func (p *Port) HardReset() error {
	glog.Infof("UART %s: reset pulse", p.Device)
	if err := p.SetRTS(true); err != nil {
		return err
	}
	time.Sleep(p.ResetPulse)
	if err := p.SetRTS(false); err != nil {
		return err
	}
	return p.ResetInputBuffer()
}

// Devices lists available serial devices.
func Devices() ([]string, error) {
	return serial.GetPortsList()
}
