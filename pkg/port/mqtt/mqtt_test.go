package mqtt

import (
	"io"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/kiss.go/pkg/modem"
)

type published struct {
	topic   string
	payload []byte
}

// fakeClient implements the parts of paho.Client used by Queue.
type fakeClient struct {
	paho.Client

	lock      sync.Mutex
	subs      []string
	unsubs    []string
	published []published
}

func (c *fakeClient) Subscribe(topic string, qos byte, cb paho.MessageHandler) paho.Token {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.subs = append(c.subs, topic)
	return &paho.DummyToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) paho.Token {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.unsubs = append(c.unsubs, topics...)
	return &paho.DummyToken{}
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.published = append(c.published, published{topic: topic, payload: payload.([]byte)})
	return &paho.DummyToken{}
}

func TestMatchTopic(t *testing.T) {
	testCases := []struct {
		topic, filter string
		match         bool
	}{
		{"air/1/a", "air/1/+", true},
		{"air/1/a/b", "air/1/+", false},
		{"air/1", "air/1/+", false},
		{"air/2/a", "air/1/+", false},
		{"air/1/a", "air/#", true},
		{"air", "air/#", true},
		{"telemetry/x/events", "telemetry/+/events", true},
		{"a/b", "a/b", true},
		{"a/b", "a/c", false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.match, MatchTopic(tc.topic, tc.filter), "%s ~ %s", tc.topic, tc.filter)
	}
}

func TestClientOptionsFromURL(t *testing.T) {
	opts, prefix, err := ClientOptionsFromURL("mqtt://u:p@broker:1883/kiss/?client-id=b1")
	require.NoError(t, err)
	require.Equal(t, "kiss/", prefix)
	require.Equal(t, "b1", opts.ClientID)
	require.Equal(t, "u", opts.Username)
	require.Equal(t, "p", opts.Password)
	require.Len(t, opts.Servers, 1)
	require.Equal(t, "tcp://broker:1883", opts.Servers[0].String())
}

func TestQueueSubscriptions(t *testing.T) {
	c := &fakeClient{}
	q := &Queue{Client: c, TopicPrefix: "p/"}
	var got []string
	s1 := q.Sub("a/+", func(topic string, _ []byte) { got = append(got, "s1:"+topic) })
	s2 := q.Sub("a/+", func(topic string, _ []byte) { got = append(got, "s2:"+topic) })
	require.Equal(t, []string{"p/a/+"}, c.subs)

	q.Dispatch("p/a/x", nil)
	q.Dispatch("other/a/x", nil)
	require.ElementsMatch(t, []string{"s1:a/x", "s2:a/x"}, got)

	require.NoError(t, s1.Close())
	require.Empty(t, c.unsubs)
	require.NoError(t, s2.Close())
	require.Equal(t, []string{"p/a/+"}, c.unsubs)
}

func readWithin(t *testing.T, a *Air) []byte {
	ch := make(chan []byte, 1)
	go func() {
		pkt, _ := a.ReadPacket()
		ch <- pkt
	}()
	select {
	case pkt := <-ch:
		return pkt
	case <-time.After(time.Second):
		t.Fatal("no packet")
	}
	return nil
}

func TestAir(t *testing.T) {
	c := &fakeClient{}
	q := &Queue{Client: c, TopicPrefix: "kiss/"}
	settings := modem.DefaultSettings()
	a := NewAir(q, "me", settings)
	require.NoError(t, a.Configure(settings))
	ch := settings.Channel()
	require.Equal(t, []string{"kiss/air/" + ch + "/+"}, c.subs)
	require.NoError(t, a.Configure(settings))
	require.Len(t, c.subs, 1)

	q.Dispatch("kiss/air/"+ch+"/me", []byte{1})
	q.Dispatch("kiss/air/"+ch+"/peer", []byte{2})
	require.Equal(t, []byte{2}, readWithin(t, a))

	require.NoError(t, a.WritePacket([]byte{3}))
	require.Equal(t, []published{{topic: "kiss/air/" + ch + "/me", payload: []byte{3}}}, c.published)

	retuned := settings
	retuned.Preset = modem.Bw125Cr45Sf128
	require.NoError(t, a.Configure(retuned))
	require.Equal(t, []string{"kiss/air/" + ch + "/+"}, c.unsubs)
	require.Equal(t, retuned.Channel(), a.Channel())
	q.Dispatch("kiss/air/"+ch+"/peer", []byte{4})
	q.Dispatch("kiss/air/"+retuned.Channel()+"/peer", []byte{5})
	require.Equal(t, []byte{5}, readWithin(t, a))

	require.NoError(t, a.Close())
	_, err := a.ReadPacket()
	require.Equal(t, io.EOF, err)
}
