// Package dial opens ports described by URLs.
package dial

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/robotalks/kiss.go/pkg/modem"
	"github.com/robotalks/kiss.go/pkg/port"
	"github.com/robotalks/kiss.go/pkg/port/mqtt"
	"github.com/robotalks/kiss.go/pkg/port/stream"
	"github.com/robotalks/kiss.go/pkg/port/uart"
	"github.com/robotalks/kiss.go/pkg/port/websocket"
)

// Options carries what radio transports need besides the URL.
type Options struct {
	// ID identifies this bridge on shared media.
	ID       string
	Settings modem.Settings
}

// ParseUART parses a device spec like /dev/ttyUSB0 or
// uart:///dev/ttyUSB0?baud=9600.
func ParseUART(spec string) (device string, baud int, err error) {
	baud = uart.DefaultBaudRate
	if !strings.HasPrefix(spec, "uart:") {
		return spec, baud, nil
	}
	u, err := url.Parse(spec)
	if err != nil {
		return "", 0, err
	}
	device = u.Path
	if device == "" {
		device = u.Opaque
	}
	if u.Host != "" {
		device = u.Host + device
	}
	if val := u.Query().Get("baud"); val != "" {
		if baud, err = strconv.Atoi(val); err != nil {
			return "", 0, fmt.Errorf("invalid baud %q", val)
		}
	}
	if device == "" {
		return "", 0, fmt.Errorf("missing device in %q", spec)
	}
	return device, baud, nil
}

// Serial opens the host serial link.
func Serial(spec string) (*port.StreamSerial, error) {
	device, baud, err := ParseUART(spec)
	if err != nil {
		return nil, err
	}
	p, err := uart.Open(device, baud)
	if err != nil {
		return nil, err
	}
	return port.NewStreamSerial(p), nil
}

// Radio opens a radio from URL:
//
//	uart:///dev/ttyUSB1?baud=115200  length-prefixed units on a UART attached modem
//	tcp://host:port                  length-prefixed units on TCP
//	mqtt://broker:1883/prefix/       simulated air medium
//	ws://host/path                   one unit per websocket message
func Radio(rawURL string, opts Options) (*port.UnitRadio, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	var rw port.PacketReadWriter
	switch u.Scheme {
	case "uart":
		device, baud, err := ParseUART(rawURL)
		if err != nil {
			return nil, err
		}
		p, err := uart.Open(device, baud)
		if err != nil {
			return nil, err
		}
		rw = stream.New(p)
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return nil, err
		}
		rw = stream.New(conn)
	case "mqtt":
		q, err := mqtt.NewQueueFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		if token := q.Connect(); token.Wait() && token.Error() != nil {
			return nil, token.Error()
		}
		rw = mqtt.NewAir(q, opts.ID, opts.Settings)
	case "ws", "wss":
		if rw, err = websocket.Dial(rawURL, ""); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown radio URL scheme: %q", u.Scheme)
	}
	return port.NewUnitRadio(rw), nil
}
