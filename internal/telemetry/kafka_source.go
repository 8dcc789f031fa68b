package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafka.Reader the source consumes.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaReaderConfig selects the topic channel samples are read from.
type KafkaReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewKafkaReader builds a consumer group reader for cfg.
func NewKafkaReader(cfg KafkaReaderConfig) (*kafka.Reader, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("kafka channel topic must not be empty")
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    1e6,
		MaxWait:     100 * time.Millisecond,
	}), nil
}

// KafkaSource feeds channel samples from a Kafka topic into a Store. The
// message key is the channel name and the value is decimal text.
type KafkaSource struct {
	reader MessageReader
	store  *Store
	logger *log.Logger
}

func NewKafkaSource(reader MessageReader, store *Store) *KafkaSource {
	return &KafkaSource{
		reader: reader,
		store:  store,
		logger: log.Default().Named("kafka_source"),
	}
}

// Start consumes until ctx is done, then closes the reader.
func (s *KafkaSource) Start(ctx context.Context) error {
	defer func() {
		if err := s.reader.Close(); err != nil {
			s.logger.Warn("Failed to close kafka reader", zap.Error(err))
		}
	}()
	s.logger.Info("Started consuming channel samples from kafka")

	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "failed to read channel sample")
		}
		s.handle(msg)
	}
}

func (s *KafkaSource) handle(msg kafka.Message) {
	name := strings.TrimSpace(string(msg.Key))
	if name == "" {
		s.logger.Debug(fmt.Sprintf("Dropping sample without channel key at offset [%d]", msg.Offset))
		return
	}
	value, err := parseValue(name, msg.Value)
	if err != nil {
		s.logger.Debug("Dropping malformed sample", zap.Error(err))
		return
	}
	if _, err = s.store.Update(name, value); err != nil {
		s.logger.Debug("Dropping sample", zap.String("channel", name), zap.Error(err))
	}
}
