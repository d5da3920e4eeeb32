package bridge

import "fmt"

// State is the state of the Controller.
type State int32

// States.
const (
	Idle State = iota
	ReceivingFromSerial
	ReceivingFromRadio
	Error
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ReceivingFromSerial:
		return "ReceivingFromSerial"
	case ReceivingFromRadio:
		return "ReceivingFromRadio"
	case Error:
		return "Error"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// StateNotifier is told every state transition.
type StateNotifier interface {
	StateChanged(from, to State)
}

// StateNotifierFunc is func form of StateNotifier.
type StateNotifierFunc func(from, to State)

// StateChanged implements StateNotifier.
func (f StateNotifierFunc) StateChanged(from, to State) {
	f(from, to)
}

// Direction selects a side of the bridge.
type Direction int

// Directions.
const (
	SerialToRadio Direction = iota
	RadioToSerial
)

// ParseDirection parses "serial" or "radio", naming where
// frames come from.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "serial", "":
		return SerialToRadio, nil
	case "radio":
		return RadioToSerial, nil
	}
	return 0, fmt.Errorf("invalid direction %q, expect serial or radio", s)
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == RadioToSerial {
		return "radio"
	}
	return "serial"
}
