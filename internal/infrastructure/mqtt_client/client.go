package mqtt_client

import (
	"crypto/tls"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/okieraised/udashboard/internal/config"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/utilities"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func getBool(key string, def bool) bool {
	if !viper.IsSet(key) {
		return def
	}
	return viper.GetBool(key)
}

// readDuration accepts "10s"/"500ms", an int (seconds), or a native duration.
func readDuration(key string, def time.Duration) time.Duration {
	if !viper.IsSet(key) {
		return def
	}
	if d, err := utilities.Parse(viper.GetString(key)); err == nil && d > 0 {
		return d
	}
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return def
}

func isSecureScheme(u string) bool {
	s := strings.ToLower(u)
	return strings.HasPrefix(s, "mqtts://") || strings.HasPrefix(s, "ssl://") ||
		strings.HasPrefix(s, "tls://") || strings.HasPrefix(s, "wss://")
}

var defaultConnLostHandler mqtt.ConnectionLostHandler = func(_ mqtt.Client, err error) {
	log.Default().Warn("MQTT connection lost", zap.Error(err))
}

var defaultReconnectHandler mqtt.ReconnectHandler = func(_ mqtt.Client, opts *mqtt.ClientOptions) {
	log.Default().Info(fmt.Sprintf("Reconnecting to MQTT broker as [%s]", opts.ClientID))
}

type Options struct {
	ConnectionLostHandler mqtt.ConnectionLostHandler
	ReconnectHandler      mqtt.ReconnectHandler
	CleanSession          *bool
	AutoReconnect         *bool
	ConnectRetry          *bool
	ResumeSubs            *bool
	TLSInsecureSkip       *bool
	WriteTimeout          *time.Duration
	KeepAlive             *time.Duration
	PingTimeout           *time.Duration
	MaxReconnectInterval  *time.Duration
	ConnectTimeout        *time.Duration
	ConnectRetryInterval  *time.Duration

	TLSConfig *tls.Config
}

type Option func(*Options)

func WithConnectionLostHandler(h mqtt.ConnectionLostHandler) Option {
	return func(o *Options) { o.ConnectionLostHandler = h }
}

func WithReconnectHandler(h mqtt.ReconnectHandler) Option {
	return func(o *Options) { o.ReconnectHandler = h }
}

func WithCleanSession(v bool) Option {
	return func(o *Options) {
		o.CleanSession = &v
	}
}

func WithAutoReconnect(v bool) Option {
	return func(o *Options) {
		o.AutoReconnect = &v
	}
}

func WithResumeSubs(v bool) Option {
	return func(o *Options) {
		o.ResumeSubs = &v
	}
}

func WithTLSInsecureSkipVerify(v bool) Option {
	return func(o *Options) {
		o.TLSInsecureSkip = &v
	}
}

func WithKeepAlive(d time.Duration) Option {
	return func(o *Options) {
		o.KeepAlive = &d
	}
}

func WithConnectTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ConnectTimeout = &d
	}
}

func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *Options) {
		o.TLSConfig = cfg
	}
}

func defaultOptionsFromViper() Options {
	return Options{
		ConnectionLostHandler: defaultConnLostHandler,
		ReconnectHandler:      defaultReconnectHandler,
		CleanSession:          utilities.Ptr(getBool(config.MqttCleanSession, true)),
		AutoReconnect:         utilities.Ptr(getBool(config.MqttAutoReconnect, true)),
		ConnectRetry:          utilities.Ptr(getBool(config.MqttConnectRetry, true)),
		ResumeSubs:            utilities.Ptr(getBool(config.MqttResumeSubs, true)),
		TLSInsecureSkip:       utilities.Ptr(getBool(config.MqttTLSInsecureSkipVerify, false)),
		WriteTimeout:          utilities.Ptr(readDuration(config.MqttWriteTimeout, constants.MqttDefaultWriteTimeout)),
		KeepAlive:             utilities.Ptr(readDuration(config.MqttKeepAliveDuration, constants.MqttDefaultKeepAlive)),
		PingTimeout:           utilities.Ptr(readDuration(config.MqttPingTimeout, constants.MqttDefaultPingTimeout)),
		MaxReconnectInterval:  utilities.Ptr(readDuration(config.MqttMaxConnectInterval, constants.MqttDefaultMaxReconnectInterval)),
		ConnectTimeout:        utilities.Ptr(readDuration(config.MqttConnectTimeout, constants.MqttDefaultConnectTimeout)),
		ConnectRetryInterval:  utilities.Ptr(readDuration(config.MqttConnectRetryInterval, constants.MqttDefaultConnectRetryInterval)),
	}
}

// clientOptions turns Options into paho options for endpoint.
func clientOptions(endpoint, clientID string, conf Options) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().
		AddBroker(endpoint).
		SetClientID(clientID).
		SetConnectionLostHandler(conf.ConnectionLostHandler).
		SetReconnectingHandler(conf.ReconnectHandler).
		SetCleanSession(*conf.CleanSession).
		SetAutoReconnect(*conf.AutoReconnect).
		SetConnectRetry(*conf.ConnectRetry).
		SetConnectRetryInterval(*conf.ConnectRetryInterval).
		SetMaxReconnectInterval(*conf.MaxReconnectInterval).
		SetWriteTimeout(*conf.WriteTimeout).
		SetKeepAlive(*conf.KeepAlive).
		SetPingTimeout(*conf.PingTimeout).
		SetResumeSubs(*conf.ResumeSubs).
		SetConnectTimeout(*conf.ConnectTimeout)
	if conf.TLSConfig != nil {
		opts.SetTLSConfig(conf.TLSConfig)
	} else if isSecureScheme(endpoint) {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: *conf.TLSInsecureSkip}) // #nosec G402
	}
	return opts
}

var (
	once    sync.Once
	client  mqtt.Client
	initErr error
)

// NewMQTTClient connects the process-wide mqtt client. Only the first call connects.
func NewMQTTClient(endpoint, clientID string, optFns ...Option) error {
	once.Do(func() {
		conf := defaultOptionsFromViper()
		for _, fn := range optFns {
			if fn != nil {
				fn(&conf)
			}
		}

		c := mqtt.NewClient(clientOptions(endpoint, clientID, conf))
		tok := c.Connect()
		if !tok.WaitTimeout(*conf.ConnectTimeout) {
			initErr = errors.Errorf("mqtt connect timeout after %s", conf.ConnectTimeout.String())
			return
		}
		if err := tok.Error(); err != nil {
			initErr = errors.Wrap(err, "mqtt connect")
			return
		}
		client = c
	})
	return initErr
}

func Client() mqtt.Client {
	if client == nil {
		panic("mqtt client not initialized")
	}
	return client
}

// Close disconnects the client, waiting up to quiesce for in-flight work.
func Close(quiesce time.Duration) {
	if client != nil && client.IsConnected() {
		client.Disconnect(uint(quiesce.Milliseconds()))
	}
}
