package mqtt

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/kiss.go/pkg/modem"
)

// AirTopicRoot is the topic tree shared by all bridges.
const AirTopicRoot = "air"

// DefaultReceiveQueue is the number of units buffered for ReadPacket.
const DefaultReceiveQueue = 16

// AirTopic is where a bridge transmits on a channel.
func AirTopic(channel, id string) string {
	return AirTopicRoot + "/" + channel + "/" + id
}

// AirFilter receives transmissions of all bridges on a channel.
func AirFilter(channel string) string {
	return AirTopicRoot + "/" + channel + "/+"
}

// Air implements port.PacketReadWriter on the simulated air medium.
// Units are published to air/<channel>/<id> and received from all
// other ids on the same channel. The channel follows the modem settings,
// so only bridges tuned alike hear each other.
type Air struct {
	Queue *Queue
	ID    string

	lock     sync.Mutex
	channel  string
	sub      *Subscription
	packetCh chan []byte
	doneCh   chan struct{}
	doneOnce sync.Once
}

// NewAir creates an Air on the channel of settings.
func NewAir(q *Queue, id string, settings modem.Settings) *Air {
	return &Air{
		Queue:    q,
		ID:       id,
		channel:  settings.Channel(),
		packetCh: make(chan []byte, DefaultReceiveQueue),
		doneCh:   make(chan struct{}),
	}
}

// Channel returns the current channel.
func (a *Air) Channel() string {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.channel
}

// ReadPacket implements port.PacketReader.
func (a *Air) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-a.packetCh:
		return pkt, nil
	case <-a.doneCh:
		return nil, io.EOF
	}
}

// WritePacket implements port.PacketWriter.
func (a *Air) WritePacket(pkt []byte) error {
	token := a.Queue.Pub(AirTopic(a.Channel(), a.ID), pkt)
	token.Wait()
	return token.Error()
}

// Configure implements modem.Configurer by moving to the new channel.
func (a *Air) Configure(s modem.Settings) error {
	channel := s.Channel()
	a.lock.Lock()
	if a.sub != nil && channel == a.channel {
		a.lock.Unlock()
		return nil
	}
	old := a.sub
	a.sub, a.channel = nil, channel
	select {
	case <-a.doneCh:
	default:
		a.sub = a.Queue.Sub(AirFilter(channel), a.handleMsg)
	}
	a.lock.Unlock()
	glog.Infof("air: tuned to %s", channel)
	if old != nil {
		return old.Close()
	}
	return nil
}

// HardReset implements port.Resetter by reconnecting to the broker.
func (a *Air) HardReset() error {
	glog.Info("air: reconnecting")
	a.Queue.Client.Disconnect(100)
	token := a.Queue.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return context.DeadlineExceeded
	}
	return token.Error()
}

// Run implements Runnable.
func (a *Air) Run(ctx context.Context) error {
	a.lock.Lock()
	if a.sub == nil {
		a.sub = a.Queue.Sub(AirFilter(a.channel), a.handleMsg)
	}
	a.lock.Unlock()
	<-ctx.Done()
	a.Close()
	return ctx.Err()
}

// Close implements io.Closer.
func (a *Air) Close() error {
	a.doneOnce.Do(func() { close(a.doneCh) })
	a.lock.Lock()
	sub := a.sub
	a.sub = nil
	a.lock.Unlock()
	if sub != nil {
		return sub.Close()
	}
	return nil
}

func (a *Air) handleMsg(topic string, payload []byte) {
	if idx := strings.LastIndex(topic, "/"); idx >= 0 && topic[idx+1:] == a.ID {
		return
	}
	if !MatchTopic(topic, AirFilter(a.Channel())) {
		return
	}
	pkt := append([]byte{}, payload...)
	select {
	case a.packetCh <- pkt:
	case <-a.doneCh:
	default:
		glog.Warningf("air: receive queue full, unit from %s dropped", topic)
	}
}
