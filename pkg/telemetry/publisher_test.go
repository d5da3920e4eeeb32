package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/kiss.go/pkg/bridge"
	"github.com/robotalks/kiss.go/pkg/checksum"
	"github.com/robotalks/kiss.go/pkg/kiss"
	"github.com/robotalks/kiss.go/pkg/modem"
	"github.com/robotalks/kiss.go/pkg/port/mqtt"
)

type message struct {
	topic    string
	retained bool
	payload  []byte
}

type fakeClient struct {
	paho.Client

	lock     sync.Mutex
	messages []message
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.messages = append(c.messages, message{topic: topic, retained: retained, payload: payload.([]byte)})
	return &paho.DummyToken{}
}

func (c *fakeClient) published() []message {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]message{}, c.messages...)
}

func waitMessages(t *testing.T, c *fakeClient, n int) []message {
	deadline := time.Now().Add(time.Second)
	for {
		msgs := c.published()
		if len(msgs) >= n {
			return msgs
		}
		require.True(t, time.Now().Before(deadline), "expect %d messages, got %d", n, len(msgs))
		time.Sleep(time.Millisecond)
	}
}

func TestPublisher(t *testing.T) {
	c := &fakeClient{}
	p := NewPublisher(&mqtt.Queue{Client: c, TopicPrefix: "kiss/"}, "b1")
	p.Meta = &Meta{Frequency: 434.0, Preset: "PW7_8Cr48Sf4096", Registers: []byte{0x08, 0xc4, 0x00}}
	p.StatsInterval = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	at := time.Unix(10, 500)
	p.Observe(bridge.Event{Kind: bridge.EventToRadio, Time: at, Size: 42})
	p.Observe(bridge.Event{Kind: bridge.EventError, Time: at, Err: errors.New("checksum mismatch")})
	params := kiss.DefaultParams()
	p.Observe(bridge.Event{Kind: bridge.EventParams, Time: at, Params: params})

	msgs := waitMessages(t, c, 4)
	require.Equal(t, "kiss/telemetry/b1/meta", msgs[0].topic)
	require.True(t, msgs[0].retained)
	meta, err := DecodeMeta(msgs[0].payload)
	require.NoError(t, err)
	require.Equal(t, "b1", meta.Bridge)
	require.True(t, meta.Online)
	require.Equal(t, 434.0, meta.Frequency)
	require.Equal(t, []byte{0x08, 0xc4, 0x00}, meta.Registers)

	ev, err := DecodeEvent(msgs[1].payload)
	require.NoError(t, err)
	require.Equal(t, "kiss/telemetry/b1/events", msgs[1].topic)
	require.Equal(t, "to-radio", ev.KindName())
	require.EqualValues(t, 42, ev.Size)
	require.True(t, at.Equal(ev.Timestamp()))

	ev, err = DecodeEvent(msgs[2].payload)
	require.NoError(t, err)
	require.Equal(t, "checksum mismatch", ev.Error)

	ev, err = DecodeEvent(msgs[3].payload)
	require.NoError(t, err)
	require.NotNil(t, ev.Params)
	require.EqualValues(t, 500, ev.Params.TxDelay)
	require.EqualValues(t, 63, ev.Params.Persistence)
	require.EqualValues(t, 100, ev.Params.SlotTime)

	cancel()
	require.Equal(t, context.Canceled, <-done)
	msgs = c.published()
	last := msgs[len(msgs)-1]
	require.Equal(t, "kiss/telemetry/b1/meta", last.topic)
	meta, err = DecodeMeta(last.payload)
	require.NoError(t, err)
	require.False(t, meta.Online)
}

func TestPublisherStats(t *testing.T) {
	c := &fakeClient{}
	p := NewPublisher(&mqtt.Queue{Client: c}, "b2")
	p.StatsInterval = time.Millisecond
	p.Stats = func() bridge.Stats { return bridge.Stats{ToRadio: 3, WatchdogResets: 1} }
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	msgs := waitMessages(t, c, 1)
	cancel()
	<-done
	require.Equal(t, "telemetry/b2/stats", msgs[0].topic)
	ev, err := DecodeEvent(msgs[0].payload)
	require.NoError(t, err)
	require.Equal(t, &Counters{ToRadio: 3, WatchdogResets: 1}, ev.Stats)
}

func TestMetaOf(t *testing.T) {
	ctl := bridge.NewController(nil, nil)
	ctl.Settings = modem.DefaultSettings()
	ctl.Checksum = checksum.MustNew(checksum.DefaultPreset)
	started := time.Unix(100, 0)
	meta := MetaOf(ctl, started)
	require.Equal(t, 434.0, meta.Frequency)
	require.Equal(t, int32(5), meta.Power)
	require.Equal(t, modem.DefaultPreset.Name, meta.Preset)
	require.Equal(t, modem.DefaultPreset.Registers[:], meta.Registers)
	require.Equal(t, checksum.DefaultPreset, meta.Checksum)
	require.Equal(t, started.UnixNano(), meta.Started)
}
