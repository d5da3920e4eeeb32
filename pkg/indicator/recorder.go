package indicator

import "sync"

// Recorder remembers indications, for tests and status queries.
type Recorder struct {
	lock    sync.Mutex
	pulses  map[Signal]int
	errorOn bool
}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{pulses: make(map[Signal]int)}
}

// Pulse implements Indicator.
func (r *Recorder) Pulse(s Signal) {
	r.lock.Lock()
	r.pulses[s]++
	r.lock.Unlock()
}

// SetError implements Indicator.
func (r *Recorder) SetError(on bool) {
	r.lock.Lock()
	r.errorOn = on
	r.lock.Unlock()
}

// Pulses returns the count of pulses of s.
func (r *Recorder) Pulses(s Signal) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pulses[s]
}

// ErrorOn tells if the error indication is latched.
func (r *Recorder) ErrorOn() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.errorOn
}

// Reset forgets all pulses.
func (r *Recorder) Reset() {
	r.lock.Lock()
	r.pulses = make(map[Signal]int)
	r.lock.Unlock()
}
