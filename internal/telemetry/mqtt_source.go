package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/utilities"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MQTTSource feeds channel samples published on <prefix>/<channel> into a Store.
type MQTTSource struct {
	client        mqtt.Client
	store         *Store
	prefix        string
	qos           byte
	subscribeWait time.Duration
	maxRetry      int
	startBackoff  time.Duration
	maxBackoff    time.Duration
	logger        *log.Logger
}

type SourceOption func(*MQTTSource)

// WithTopicPrefix overrides the channel topic prefix. An empty prefix keeps
// the default.
func WithTopicPrefix(prefix string) SourceOption {
	return func(s *MQTTSource) {
		if prefix = strings.TrimSuffix(prefix, "/"); prefix != "" {
			s.prefix = prefix
		}
	}
}

func WithQoS(qos byte) SourceOption {
	return func(s *MQTTSource) {
		s.qos = qos
	}
}

func WithSubscribeRetry(maxRetry int, startBackoff, maxBackoff time.Duration) SourceOption {
	return func(s *MQTTSource) {
		s.maxRetry = maxRetry
		s.startBackoff = startBackoff
		s.maxBackoff = maxBackoff
	}
}

func NewMQTTSource(client mqtt.Client, store *Store, opts ...SourceOption) *MQTTSource {
	s := &MQTTSource{
		client:        client,
		store:         store,
		prefix:        constants.DefaultChannelTopicPrefix,
		qos:           constants.DefaultChannelQoS,
		subscribeWait: constants.MqttDefaultWriteTimeout,
		maxRetry:      5,
		startBackoff:  500 * time.Millisecond,
		maxBackoff:    10 * time.Second,
		logger:        log.Default().Named("mqtt_source"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Topic is the wildcard subscription covering every channel.
func (s *MQTTSource) Topic() string {
	return s.prefix + "/+"
}

// Start subscribes and keeps the subscription until ctx is done.
func (s *MQTTSource) Start(ctx context.Context) error {
	err := utilities.RetryWithBackoff(ctx, func() error {
		subErr := s.subscribe()
		if subErr != nil {
			s.logger.Warn("Failed to subscribe to channel topic", zap.String("topic", s.Topic()), zap.Error(subErr))
		}
		return subErr
	}, s.maxRetry, s.startBackoff, s.maxBackoff)
	if err != nil {
		return err
	}
	s.logger.Info(fmt.Sprintf("Subscribed to channel topic [%s]", s.Topic()))

	<-ctx.Done()

	tok := s.client.Unsubscribe(s.Topic())
	if tok.WaitTimeout(s.subscribeWait) && tok.Error() != nil {
		s.logger.Warn("Failed to unsubscribe from channel topic", zap.Error(tok.Error()))
	}
	return nil
}

func (s *MQTTSource) subscribe() error {
	tok := s.client.Subscribe(s.Topic(), s.qos, s.handle)
	if !tok.WaitTimeout(s.subscribeWait) {
		return errors.Errorf("subscribe to [%s] timed out after %s", s.Topic(), s.subscribeWait)
	}
	return errors.Wrapf(tok.Error(), "subscribe to [%s]", s.Topic())
}

func (s *MQTTSource) handle(_ mqtt.Client, msg mqtt.Message) {
	name, value, err := ParseSample(s.prefix, msg.Topic(), msg.Payload())
	if err != nil {
		s.logger.Debug("Dropping malformed sample", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}
	if _, err = s.store.Update(name, value); err != nil {
		s.logger.Debug("Dropping sample", zap.String("channel", name), zap.Error(err))
	}
}

// ParseSample extracts the channel name from topic and the value from a
// decimal text payload.
func ParseSample(prefix, topic string, payload []byte) (string, float64, error) {
	name, ok := strings.CutPrefix(topic, strings.TrimSuffix(prefix, "/")+"/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", 0, errors.Errorf("topic [%s] is not a channel topic under [%s]", topic, prefix)
	}
	value, err := parseValue(name, payload)
	if err != nil {
		return "", 0, err
	}
	return name, value, nil
}

func parseValue(name string, payload []byte) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "channel [%s] payload", name)
	}
	return value, nil
}
