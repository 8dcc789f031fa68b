package constants

import "time"

const (
	AgentDefaultHTTPPort       = 8080
	AgentDefaultGRPCPort       = 7070
	AgentDefaultMonitoringPort = 6060
)

const (
	DefaultHTTPRequestTimeout = 10
	GraceWaitPeriod           = 10 * time.Second
)

const (
	MqttDefaultWriteTimeout         = 10 * time.Second
	MqttDefaultKeepAlive            = 30 * time.Second
	MqttDefaultPingTimeout          = 5 * time.Second
	MqttDefaultMaxReconnectInterval = 30 * time.Second
	MqttDefaultConnectTimeout       = 10 * time.Second
	MqttDefaultConnectRetryInterval = 10 * time.Second
)

const (
	DefaultChannelTopicPrefix      = "udashboard/channels"
	DefaultChannelQoS         byte = 0
)

const (
	DefaultFrameInterval   = 50 * time.Millisecond
	DefaultParallelGauges  = 8
	DefaultFrameCacheTTL   = 5 * time.Second
	DefaultArchiveInterval = 10 * time.Second
	DefaultArchivePrefix   = "frames"
)

const (
	CacheKeyLatestFrame     = "latest"
	CacheKeyPageFramePrefix = "page:"
)
