// Package telemetry publishes bridge events to MQTT.
//
// Topics, relative to the queue prefix:
//
//	telemetry/<id>/meta    retained Meta
//	telemetry/<id>/events  Event per bridge event
//	telemetry/<id>/stats   Event with Stats, periodically
package telemetry

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/kiss.go/pkg/bridge"
	"github.com/robotalks/kiss.go/pkg/port/mqtt"
)

// TopicRoot is the root of telemetry topics.
const TopicRoot = "telemetry"

// Topic returns the telemetry topic of a bridge.
func Topic(id, name string) string {
	return TopicRoot + "/" + id + "/" + name
}

// Publisher implements bridge.Observer, publishing in background.
type Publisher struct {
	Queue         *mqtt.Queue
	ID            string
	Meta          *Meta
	StatsInterval time.Duration
	Stats         func() bridge.Stats

	eventCh chan bridge.Event
}

// NewPublisher creates a Publisher.
func NewPublisher(q *mqtt.Queue, id string) *Publisher {
	return &Publisher{
		Queue:         q,
		ID:            id,
		StatsInterval: defaultConfig.StatsInterval,
		eventCh:       make(chan bridge.Event, 64),
	}
}

// Observe implements bridge.Observer. Events are dropped when
// the publisher falls behind.
func (p *Publisher) Observe(ev bridge.Event) {
	select {
	case p.eventCh <- ev:
	default:
		glog.V(2).Infof("telemetry: event %s dropped", ev.Kind)
	}
}

// Name implements Named.
func (p *Publisher) Name() string {
	return "telemetry"
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	p.publishMeta(true)
	defer p.publishMeta(false)

	var tick <-chan time.Time
	if p.StatsInterval > 0 && p.Stats != nil {
		ticker := time.NewTicker(p.StatsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-p.eventCh:
			p.publish("events", FromEvent(p.ID, ev), false)
		case t := <-tick:
			p.publish("stats", &Event{Bridge: p.ID, Time: t.UnixNano(), Stats: FromStats(p.Stats())}, false)
		}
	}
}

func (p *Publisher) publishMeta(online bool) {
	if p.Meta == nil {
		return
	}
	meta := *p.Meta
	meta.Bridge, meta.Online = p.ID, online
	token := p.publish("meta", &meta, true)
	if token != nil && !online {
		token.WaitTimeout(time.Second)
	}
}

type waiter interface {
	WaitTimeout(time.Duration) bool
}

func (p *Publisher) publish(name string, msg proto.Message, retain bool) waiter {
	data, err := proto.Marshal(msg)
	if err != nil {
		glog.Errorf("telemetry: encode %s: %v", name, err)
		return nil
	}
	return p.Queue.PubWith(Topic(p.ID, name), data, 0, retain)
}

// DecodeEvent decodes an Event.
func DecodeEvent(data []byte) (*Event, error) {
	var ev Event
	if err := proto.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DecodeMeta decodes a Meta.
func DecodeMeta(data []byte) (*Meta, error) {
	var m Meta
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
