// Package tnc provides shell commands driving a KISS TNC.
package tnc

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/kiss.go/pkg/cli/sh"
	"github.com/robotalks/kiss.go/pkg/kiss"
	"github.com/robotalks/kiss.go/pkg/port/uart"
)

// ParseCode parses a parameter name, case insensitive.
func ParseCode(name string) (kiss.Code, error) {
	for code := kiss.CodeTXDelay; code <= kiss.CodeSetHardware; code++ {
		if strings.EqualFold(code.String(), name) {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter %q", name)
}

// ParseParamValue parses a parameter value, durations are converted
// to 10ms units for TXDelay, SlotTime and TXTail.
func ParseParamValue(code kiss.Code, val string) (byte, error) {
	switch code {
	case kiss.CodeTXDelay, kiss.CodeSlotTime, kiss.CodeTXTail:
		if d, err := time.ParseDuration(val); err == nil {
			units := d / kiss.ParamUnit
			if units < 0 || units > 255 {
				return 0, fmt.Errorf("%v out of range", d)
			}
			return byte(units), nil
		}
	case kiss.CodeFullDuplex:
		if on, err := strconv.ParseBool(val); err == nil {
			if on {
				return 1, nil
			}
			return 0, nil
		}
	}
	v, err := strconv.ParseUint(val, 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parsePort(c *ishell.Context, args []string) (uint8, []string, bool) {
	if len(args) < 1 {
		c.Err(fmt.Errorf("PORT required"))
		return 0, nil, false
	}
	p, err := strconv.ParseUint(args[0], 10, 4)
	if err != nil {
		c.Err(fmt.Errorf("Invalid PORT: %v", err))
		return 0, nil, false
	}
	return uint8(p), args[1:], true
}

var (
	// SendCmd sends text in a data frame.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "PORT TEXT...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			p, args, ok := parsePort(c, c.Args)
			if !ok {
				return
			}
			sh.Send(c, kiss.Frame{Command: kiss.DataCommand(p), Data: []byte(strings.Join(args, " "))})
		}),
	}

	// SendHexCmd sends hex encoded bytes in a data frame.
	SendHexCmd = ishell.Cmd{
		Name:    "sendhex",
		Aliases: []string{"sx"},
		Help:    "PORT HEX",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			p, args, ok := parsePort(c, c.Args)
			if !ok {
				return
			}
			data, err := hex.DecodeString(strings.Join(args, ""))
			if err != nil {
				c.Err(fmt.Errorf("Invalid HEX: %v", err))
				return
			}
			sh.Send(c, kiss.Frame{Command: kiss.DataCommand(p), Data: data})
		}),
	}

	// ParamCmd sets a TNC parameter.
	ParamCmd = ishell.Cmd{
		Name:    "param",
		Aliases: []string{"p"},
		Help:    "NAME VALUE [PORT]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("NAME and VALUE required"))
				return
			}
			code, err := ParseCode(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			val, err := ParseParamValue(code, c.Args[1])
			if err != nil {
				c.Err(fmt.Errorf("Invalid VALUE: %v", err))
				return
			}
			var p uint8
			if len(c.Args) > 2 {
				var ok bool
				if p, _, ok = parsePort(c, c.Args[2:]); !ok {
					return
				}
			}
			sh.Send(c, kiss.ParamFrame(p, code, val))
		}),
	}

	// ReturnCmd asks the TNC to leave KISS mode.
	ReturnCmd = ishell.Cmd{
		Name: "return",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Send(c, kiss.Frame{Command: kiss.CmdReturn})
		}),
	}

	// DevicesCmd lists serial devices.
	DevicesCmd = ishell.Cmd{
		Name:    "devices",
		Aliases: []string{"ls"},
		Help:    "",
		Func: func(c *ishell.Context) {
			devices, err := uart.Devices()
			if err != nil {
				c.Err(err)
				return
			}
			if len(devices) == 0 {
				c.Println("No serial devices found")
				return
			}
			for _, dev := range devices {
				c.Println(dev)
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&SendCmd,
		&SendHexCmd,
		&ParamCmd,
		&ReturnCmd,
		&DevicesCmd,
	)
}
