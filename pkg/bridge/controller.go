package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/kiss.go/pkg/checksum"
	fx "github.com/robotalks/kiss.go/pkg/framework"
	"github.com/robotalks/kiss.go/pkg/indicator"
	"github.com/robotalks/kiss.go/pkg/kiss"
	"github.com/robotalks/kiss.go/pkg/modem"
	"github.com/robotalks/kiss.go/pkg/packet"
	"github.com/robotalks/kiss.go/pkg/port"
)

// Ticker is implemented by indicators needing periodic service.
type Ticker interface {
	Tick()
}

// Controller is the KISS TNC bridge.
// Fields must be set before Begin and not changed afterwards.
type Controller struct {
	Serial port.Serial
	Radio  port.Radio

	// Port is the KISS port of frames forwarded to the radio.
	Port uint8
	// MaxPacketSize is the capacity of the big buffer.
	MaxPacketSize int
	// SmallPacketSize is the capacity of the small buffer, 0 for MaxPacketSize.
	SmallPacketSize int
	// BigBufferFor selects the side assembling into the big buffer.
	BigBufferFor      Direction
	SerialTimeout     time.Duration
	HeartbeatInterval time.Duration
	// WatchdogInterval is the max radio silence, 0 disables the watchdog.
	WatchdogInterval time.Duration
	// PollInterval is the wait of Run when both sides are idle.
	PollInterval time.Duration

	Checksum      *checksum.Unit
	Settings      modem.Settings
	Indicator     indicator.Indicator
	Clock         fx.TimeSource
	Observer      Observer
	StateNotifier StateNotifier

	begun        bool
	state        int32
	serialBuf    *packet.Buffer
	radioBuf     *packet.Buffer
	decoder      *kiss.Decoder
	readBuf      [1]byte
	encoded      []byte
	errorLatched bool
	lastBeat     time.Time
	lastActivity time.Time
	counters     counters

	paramsLock sync.RWMutex
	params     kiss.Params
}

// NewController creates a Controller with default options.
func NewController(serial port.Serial, radio port.Radio) *Controller {
	return &Controller{
		Serial:            serial,
		Radio:             radio,
		Port:              uint8(defaultConfig.Port),
		MaxPacketSize:     defaultConfig.MaxPacketSize,
		SmallPacketSize:   defaultConfig.SmallPacketSize,
		SerialTimeout:     defaultConfig.SerialTimeout,
		HeartbeatInterval: defaultConfig.HeartbeatInterval,
		WatchdogInterval:  defaultConfig.WatchdogInterval,
		PollInterval:      defaultConfig.PollInterval,
		Settings:          modem.DefaultSettings(),
		Indicator:         indicator.Nop{},
		Clock:             fx.SystemClock,
		params:            kiss.DefaultParams(),
	}
}

// Begin allocates the buffers, programs the radio and starts the timers.
// Failures match ErrNotStarted and Begin may be retried.
func (c *Controller) Begin(ctx context.Context) error {
	if c.begun {
		return nil
	}
	if c.Serial == nil || c.Radio == nil {
		return fmt.Errorf("%w: serial and radio required", ErrNotStarted)
	}
	if c.MaxPacketSize <= 0 {
		return fmt.Errorf("%w: invalid max packet size %d", ErrNotStarted, c.MaxPacketSize)
	}
	if c.Checksum == nil {
		c.Checksum = checksum.MustNew(checksum.DefaultPreset)
	}
	if c.Indicator == nil {
		c.Indicator = indicator.Nop{}
	}
	if c.Clock == nil {
		c.Clock = fx.SystemClock
	}
	small := c.SmallPacketSize
	if small <= 0 || small > c.MaxPacketSize {
		small = c.MaxPacketSize
	}
	big := packet.NewBuffer(c.MaxPacketSize, checksum.Size)
	smallBuf := packet.NewBuffer(small, checksum.Size)
	if c.BigBufferFor == RadioToSerial {
		c.serialBuf, c.radioBuf = smallBuf, big
	} else {
		c.serialBuf, c.radioBuf = big, smallBuf
	}
	c.decoder = kiss.NewDecoder(c.serialBuf)
	c.encoded = make([]byte, 0, kiss.MaxEncodedLen(c.radioBuf.Cap()))

	if err := c.configureRadio(); err != nil {
		return fmt.Errorf("%w: configure radio: %v", ErrNotStarted, err)
	}
	now := c.Clock.Time()
	c.lastBeat, c.lastActivity = now, now
	c.errorLatched = false
	c.Indicator.SetError(false)
	atomic.StoreInt32(&c.state, int32(Idle))
	c.begun = true
	glog.Infof("bridge started: port %d, serial buffer %d, radio buffer %d, checksum %s, %s",
		c.Port, c.serialBuf.Cap(), c.radioBuf.Cap(), c.Checksum.Preset().Name, c.Settings)
	return nil
}

// State returns the current state.
func (c *Controller) State() State {
	return State(atomic.LoadInt32(&c.state))
}

// Params returns the TNC parameters set by the host.
func (c *Controller) Params() kiss.Params {
	c.paramsLock.RLock()
	defer c.paramsLock.RUnlock()
	return c.params
}

// Stats returns the counters.
func (c *Controller) Stats() Stats {
	return c.counters.snapshot()
}

// Step implements fx.Stepper, running one iteration.
// Only terminal port errors are returned.
func (c *Controller) Step(ctx context.Context) (busy bool, err error) {
	if !c.begun {
		if err = c.Begin(ctx); err != nil {
			return false, err
		}
	}
	if t, ok := c.Indicator.(Ticker); ok {
		t.Tick()
	}
	now := c.Clock.Time()
	if c.HeartbeatInterval > 0 && now.Sub(c.lastBeat) >= c.HeartbeatInterval {
		c.Indicator.Pulse(indicator.Heartbeat)
		c.lastBeat = now
	}

	if c.Serial.Peek() > 0 {
		busy = true
		c.setState(ReceivingFromSerial)
		err = c.serviceSerial()
	} else if c.Radio.Peek() {
		busy = true
		c.setState(ReceivingFromRadio)
		err = c.serviceRadio()
	}
	if err != nil {
		if IsTerminal(err) {
			c.setState(Idle)
			return busy, err
		}
		c.fail(err)
	}
	c.setState(Idle)

	c.checkWatchdog()
	return busy, nil
}

// Run implements Runnable.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Begin(ctx); err != nil {
		return err
	}
	loop := fx.NewLoop()
	loop.Interval = c.PollInterval
	c.AddToLoop(loop)
	return loop.Run(ctx)
}

// AddToLoop implements LoopAdder.
// Only Step is registered, Run would start a second loop.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddStepper(fx.StepFunc(c.Step))
}

func (c *Controller) serviceSerial() error {
	for {
		n, err := c.Serial.ReadInto(c.readBuf[:], c.SerialTimeout)
		if err != nil {
			return fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			// no more data this cycle, a partial frame waits in the decoder
			return nil
		}
		r := c.decoder.Decode(c.readBuf[0])
		if r.Err != nil {
			return r.Err
		}
		if r.Complete {
			return c.forwardToRadio(r.Command)
		}
	}
}

func (c *Controller) forwardToRadio(cmd kiss.Command) error {
	defer c.serialBuf.Reset()
	payload := c.serialBuf.Bytes()
	if !cmd.IsData() {
		c.applyCommand(cmd, payload)
		return nil
	}
	if p := cmd.Port(); p != c.Port {
		glog.V(2).Infof("frame for port %d dropped", p)
		inc(&c.counters.dropped)
		c.notify(Event{Kind: EventDropped, Size: len(payload)})
		return nil
	}
	size := len(payload)
	trailer := c.Checksum.Trailer(payload)
	if err := c.serialBuf.AppendTrailer(trailer[:]); err != nil {
		return err
	}
	if err := c.Radio.Write(c.serialBuf.Bytes()); err != nil {
		return fmt.Errorf("radio write: %w", err)
	}
	glog.V(4).Infof("serial -> radio %d bytes", size)
	c.Indicator.Pulse(indicator.Transmit)
	inc(&c.counters.toRadio)
	c.succeeded()
	c.notify(Event{Kind: EventToRadio, Size: size})
	return nil
}

func (c *Controller) applyCommand(cmd kiss.Command, data []byte) {
	if cmd.IsReturn() {
		glog.Info("host left KISS mode, ignored")
		return
	}
	c.paramsLock.Lock()
	err := c.params.Apply(cmd, data)
	params := c.params
	c.paramsLock.Unlock()
	if err != nil {
		glog.Warningf("command 0x%02x ignored: %v", byte(cmd), err)
		return
	}
	glog.V(2).Infof("%s = %v", cmd.Code(), data)
	inc(&c.counters.paramUpdates)
	c.notify(Event{Kind: EventParams, Params: params})
}

func (c *Controller) serviceRadio() error {
	_, err := c.radioBuf.Fill(c.Radio.ReadInto)
	defer c.radioBuf.Reset()
	if err != nil {
		if errors.Is(err, packet.ErrFrameTooLarge) {
			return err
		}
		return fmt.Errorf("radio read: %w", err)
	}
	payload, ok := c.Checksum.Verify(c.radioBuf.Bytes())
	if !ok {
		return checksum.ErrChecksumMismatch
	}
	c.encoded = kiss.AppendFrame(c.encoded[:0], kiss.DataCommand(c.Port), payload)
	if err := c.Serial.Write(c.encoded); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	glog.V(4).Infof("radio -> serial %d bytes", len(payload))
	c.Indicator.Pulse(indicator.Receive)
	inc(&c.counters.toSerial)
	c.succeeded()
	c.notify(Event{Kind: EventToSerial, Size: len(payload)})
	return nil
}

func (c *Controller) succeeded() {
	c.lastActivity = c.Clock.Time()
	if c.errorLatched {
		c.errorLatched = false
		c.Indicator.SetError(false)
	}
}

func (c *Controller) fail(err error) {
	c.setState(Error)
	inc(&c.counters.errors)
	switch {
	case errors.Is(err, kiss.ErrFrameTooLarge):
		inc(&c.counters.frameTooLarge)
	case errors.Is(err, kiss.ErrMalformedEscape):
		inc(&c.counters.badEscape)
	case errors.Is(err, checksum.ErrChecksumMismatch):
		inc(&c.counters.badChecksum)
	}
	if IsFrameError(err) {
		glog.Warningf("frame dropped: %v", err)
		if !c.errorLatched {
			c.errorLatched = true
			c.Indicator.SetError(true)
		}
	} else {
		glog.Errorf("transfer failed: %v", err)
	}
	c.notify(Event{Kind: EventError, Err: err})
}

func (c *Controller) checkWatchdog() {
	if c.WatchdogInterval <= 0 {
		return
	}
	now := c.Clock.Time()
	if now.Sub(c.lastActivity) < c.WatchdogInterval {
		return
	}
	glog.Warningf("no radio traffic for %v, resetting radio", now.Sub(c.lastActivity))
	c.decoder.Reset()
	c.serialBuf.Reset()
	c.radioBuf.Reset()
	if err := c.Radio.HardReset(); err != nil {
		glog.Errorf("radio reset: %v", err)
	}
	if err := c.configureRadio(); err != nil {
		glog.Errorf("radio configure: %v", err)
	}
	c.lastActivity = now
	inc(&c.counters.watchdogResets)
	c.notify(Event{Kind: EventWatchdog, Err: ErrRadioUnresponsive})
}

func (c *Controller) configureRadio() error {
	if cf, ok := c.Radio.(modem.Configurer); ok {
		return cf.Configure(c.Settings)
	}
	return nil
}

func (c *Controller) setState(s State) {
	from := State(atomic.SwapInt32(&c.state, int32(s)))
	if from != s && c.StateNotifier != nil {
		c.StateNotifier.StateChanged(from, s)
	}
}

func (c *Controller) notify(ev Event) {
	if c.Observer == nil {
		return
	}
	ev.Time = c.Clock.Time()
	c.Observer.Observe(ev)
}
