package telemetry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okieraised/udashboard/internal/ir"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	messages chan kafka.Message
	err      error
	closed   atomic.Bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if r.err != nil {
		return kafka.Message{}, r.err
	}
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case msg := <-r.messages:
		return msg, nil
	}
}

func (r *fakeReader) Close() error {
	r.closed.Store(true)
	return nil
}

func TestKafkaSource_Start(t *testing.T) {
	store := NewStore([]ir.Channel{{Name: "rpm"}, {Name: "volts"}})
	reader := &fakeReader{messages: make(chan kafka.Message, 8)}
	reader.messages <- kafka.Message{Key: []byte("rpm"), Value: []byte("4200")}
	reader.messages <- kafka.Message{Key: []byte("volts"), Value: []byte(" 12.6\n")}
	reader.messages <- kafka.Message{Key: []byte("boost"), Value: []byte("1.2")}
	reader.messages <- kafka.Message{Key: nil, Value: []byte("3")}
	reader.messages <- kafka.Message{Key: []byte("rpm"), Value: []byte("fast")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewKafkaSource(reader, store).Start(ctx) }()

	require.Eventually(t, func() bool {
		v, _ := store.Snapshot().Lookup("volts")
		return v == 12.6
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(reader.messages) == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.True(t, reader.closed.Load())

	snap := store.Snapshot()
	rpm, _ := snap.Lookup("rpm")
	assert.Equal(t, 4200.0, rpm)
	_, ok := snap.Lookup("boost")
	assert.False(t, ok)
}

func TestKafkaSource_ReadError(t *testing.T) {
	store := NewStore([]ir.Channel{{Name: "rpm"}})
	reader := &fakeReader{err: errors.New("broker gone")}

	err := NewKafkaSource(reader, store).Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker gone")
	assert.True(t, reader.closed.Load())
}

func TestNewKafkaReader_Validates(t *testing.T) {
	_, err := NewKafkaReader(KafkaReaderConfig{Topic: "channels"})
	assert.Error(t, err)
	_, err = NewKafkaReader(KafkaReaderConfig{Brokers: []string{"localhost:9092"}, Topic: " "})
	assert.Error(t, err)
}
