package port

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/kiss.go/pkg/framework"
	"github.com/robotalks/kiss.go/pkg/modem"
)

// DefaultUnitQueueSize is the number of received units UnitRadio keeps.
const DefaultUnitQueueSize = 8

// UnitRadio turns a PacketReadWriter into a Radio.
// Run receives units in background; once QueueSize units are pending,
// the oldest is dropped.
type UnitRadio struct {
	ReadWriter PacketReadWriter
	QueueSize  int
	// Resetter overrides the hard reset of ReadWriter.
	Resetter Resetter

	lock    sync.Mutex
	units   [][]byte
	err     error
	dropped int
}

// NewUnitRadio creates a UnitRadio.
func NewUnitRadio(rw PacketReadWriter) *UnitRadio {
	return &UnitRadio{ReadWriter: rw, QueueSize: DefaultUnitQueueSize}
}

// Peek implements Radio.
func (r *UnitRadio) Peek() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.units) > 0 || r.err != nil
}

// ReadInto implements Radio.
func (r *UnitRadio) ReadInto(p []byte) (int, error) {
	r.lock.Lock()
	if len(r.units) == 0 {
		err := r.err
		r.lock.Unlock()
		return 0, err
	}
	unit := r.units[0]
	r.units[0] = nil
	r.units = r.units[1:]
	r.lock.Unlock()
	if len(unit) > len(p) {
		return 0, io.ErrShortBuffer
	}
	return copy(p, unit), nil
}

// Write implements Radio.
func (r *UnitRadio) Write(p []byte) error {
	return r.ReadWriter.WritePacket(p)
}

// HardReset implements Radio. Pending units are flushed.
func (r *UnitRadio) HardReset() error {
	r.lock.Lock()
	r.units = nil
	r.lock.Unlock()
	resetter := r.Resetter
	if resetter == nil {
		resetter, _ = r.ReadWriter.(Resetter)
	}
	if resetter == nil {
		return nil
	}
	return resetter.HardReset()
}

// Configure implements modem.Configurer, forwarded if supported.
func (r *UnitRadio) Configure(s modem.Settings) error {
	if c, ok := r.ReadWriter.(modem.Configurer); ok {
		return c.Configure(s)
	}
	return nil
}

// Dropped returns the number of units dropped on queue overflow.
func (r *UnitRadio) Dropped() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.dropped
}

// Name implements Named.
func (r *UnitRadio) Name() string {
	return "radio"
}

// Run implements Runnable.
func (r *UnitRadio) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if closer, ok := r.ReadWriter.(io.Closer); ok {
				closer.Close()
			}
		case <-done:
		}
	}()
	for {
		unit, err := r.ReadWriter.ReadPacket()
		if err != nil {
			if errors.Is(err, ErrOversize) {
				glog.Warningf("radio: %v", err)
				continue
			}
			r.fail(err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		r.enqueue(unit)
	}
}

// AddToLoop implements LoopAdder.
func (r *UnitRadio) AddToLoop(loop *fx.Loop) {
	if adder, ok := r.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := r.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(r)
}

func (r *UnitRadio) enqueue(unit []byte) {
	size := r.QueueSize
	if size <= 0 {
		size = DefaultUnitQueueSize
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if len(r.units) >= size {
		r.units[0] = nil
		r.units = r.units[1:]
		r.dropped++
		glog.Warningf("radio: queue full, %d units dropped", r.dropped)
	}
	r.units = append(r.units, unit)
}

func (r *UnitRadio) fail(err error) {
	if err == io.EOF {
		err = ErrClosed
	}
	err = readerStopped(err)
	r.lock.Lock()
	if r.err == nil {
		r.err = err
	}
	r.lock.Unlock()
}
