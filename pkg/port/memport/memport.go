// Package memport provides in-memory ports for tests and loopback setups.
package memport

import (
	"io"
	"sync"
	"time"

	"github.com/robotalks/kiss.go/pkg/modem"
	"github.com/robotalks/kiss.go/pkg/port"
)

// Serial is an in-memory port.Serial.
// ReadInto never blocks: an empty input behaves as an expired timeout.
type Serial struct {
	lock     sync.Mutex
	input    []byte
	output   []byte
	writes   int
	closed   bool
	WriteErr error
}

// NewSerial creates a Serial.
func NewSerial() *Serial {
	return &Serial{}
}

// Inject queues input bytes.
func (s *Serial) Inject(p ...byte) {
	s.lock.Lock()
	s.input = append(s.input, p...)
	s.lock.Unlock()
}

// Peek implements port.Serial.
func (s *Serial) Peek() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return 1
	}
	return len(s.input)
}

// ReadInto implements port.Serial.
func (s *Serial) ReadInto(p []byte, timeout time.Duration) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.input) == 0 {
		if s.closed {
			return 0, port.ErrClosed
		}
		return 0, nil
	}
	n := copy(p, s.input)
	s.input = s.input[n:]
	return n, nil
}

// Write implements port.Serial.
func (s *Serial) Write(p []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.output = append(s.output, p...)
	s.writes++
	return nil
}

// Output returns everything written.
func (s *Serial) Output() []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]byte{}, s.output...)
}

// Writes returns the number of successful writes.
func (s *Serial) Writes() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.writes
}

// Close makes reads fail with port.ErrClosed once input is drained.
func (s *Serial) Close() error {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	return nil
}

// Radio is an in-memory port.Radio and modem.Configurer.
type Radio struct {
	lock     sync.Mutex
	units    [][]byte
	written  [][]byte
	resets   int
	settings []modem.Settings
	closed   bool
	WriteErr error
	// OnWrite, if set, receives every written unit, e.g. to loop
	// units back into another Radio.
	OnWrite func([]byte)
}

// NewRadio creates a Radio.
func NewRadio() *Radio {
	return &Radio{}
}

// Inject queues a received unit.
func (r *Radio) Inject(unit []byte) {
	r.lock.Lock()
	r.units = append(r.units, append([]byte{}, unit...))
	r.lock.Unlock()
}

// Peek implements port.Radio.
func (r *Radio) Peek() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.units) > 0 || r.closed
}

// ReadInto implements port.Radio.
func (r *Radio) ReadInto(p []byte) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if len(r.units) == 0 {
		if r.closed {
			return 0, port.ErrClosed
		}
		return 0, nil
	}
	unit := r.units[0]
	r.units = r.units[1:]
	if len(unit) > len(p) {
		return 0, io.ErrShortBuffer
	}
	return copy(p, unit), nil
}

// Write implements port.Radio.
func (r *Radio) Write(p []byte) error {
	r.lock.Lock()
	if r.WriteErr != nil {
		r.lock.Unlock()
		return r.WriteErr
	}
	unit := append([]byte{}, p...)
	r.written = append(r.written, unit)
	fn := r.OnWrite
	r.lock.Unlock()
	if fn != nil {
		fn(unit)
	}
	return nil
}

// HardReset implements port.Radio. Pending units are lost.
func (r *Radio) HardReset() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.resets++
	r.units = nil
	return nil
}

// Configure implements modem.Configurer.
func (r *Radio) Configure(s modem.Settings) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.settings = append(r.settings, s)
	return nil
}

// Written returns the units written.
func (r *Radio) Written() [][]byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([][]byte{}, r.written...)
}

// Resets returns the number of hard resets.
func (r *Radio) Resets() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.resets
}

// Configured returns all settings programmed.
func (r *Radio) Configured() []modem.Settings {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]modem.Settings{}, r.settings...)
}

// Close makes reads fail with port.ErrClosed once units are drained.
func (r *Radio) Close() error {
	r.lock.Lock()
	r.closed = true
	r.lock.Unlock()
	return nil
}

// Link connects two radios so each hears what the other transmits.
func Link(a, b *Radio) {
	a.lock.Lock()
	a.OnWrite = b.Inject
	a.lock.Unlock()
	b.lock.Lock()
	b.OnWrite = a.Inject
	b.lock.Unlock()
}
