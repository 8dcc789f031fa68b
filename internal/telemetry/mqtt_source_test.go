package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// fakeClient rejects the first `failures` Subscribe calls.
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	failures     int
	attempts     int
	topic        string
	handler      mqtt.MessageHandler
	unsubscribed bool
}

func (c *fakeClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.attempts <= c.failures {
		return &fakeToken{err: errors.New("not connected")}
	}
	c.topic = topic
	c.handler = cb
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribed = true
	return &fakeToken{}
}

func (c *fakeClient) subscribed() (mqtt.MessageHandler, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler, c.handler != nil
}

func TestParseSample(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		channel string
		value   float64
		wantErr bool
	}{
		{"plain", "car/ch/rpm", "3500", "rpm", 3500, false},
		{"decimal with spaces", "car/ch/oil", " 42.5\n", "oil", 42.5, false},
		{"negative", "car/ch/temp", "-12", "temp", -12, false},
		{"wrong prefix", "other/rpm", "1", "", 0, true},
		{"nested", "car/ch/rpm/raw", "1", "", 0, true},
		{"empty name", "car/ch/", "1", "", 0, true},
		{"bad payload", "car/ch/rpm", "fast", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, value, err := ParseSample("car/ch", tt.topic, []byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.channel, channel)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestMQTTSource_Start(t *testing.T) {
	store := NewStore(testChannels())
	client := &fakeClient{failures: 2}
	src := NewMQTTSource(client, store,
		WithTopicPrefix("car/ch/"),
		WithQoS(1),
		WithSubscribeRetry(5, time.Millisecond, 2*time.Millisecond),
	)
	assert.Equal(t, "car/ch/+", src.Topic())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Start(ctx) }()

	var handler mqtt.MessageHandler
	require.Eventually(t, func() bool {
		var ok bool
		handler, ok = client.subscribed()
		return ok
	}, time.Second, time.Millisecond)

	handler(client, fakeMessage{topic: "car/ch/coolant", payload: []byte("280")})
	handler(client, fakeMessage{topic: "car/ch/speed", payload: []byte("88")})
	handler(client, fakeMessage{topic: "car/ch/rpm", payload: []byte("garbage")})

	v, _ := store.Snapshot().Lookup("coolant")
	assert.Equal(t, 100.0, v)
	assert.Equal(t, uint64(1), store.Snapshot().Seq())

	cancel()
	require.NoError(t, <-done)
	assert.True(t, client.unsubscribed)
	assert.Equal(t, 3, client.attempts)
}

func TestMQTTSource_StartGivesUp(t *testing.T) {
	client := &fakeClient{failures: 10}
	src := NewMQTTSource(client, NewStore(testChannels()),
		WithSubscribeRetry(3, time.Millisecond, time.Millisecond),
	)

	err := src.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, client.attempts)
}
