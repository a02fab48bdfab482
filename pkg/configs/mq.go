package configs

import (
	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	// MQTypeChannel 进程内 gochannel，默认，零依赖.
	MQTypeChannel MQType = "channel"
	// MQTypeNATS NATS（支持 JetStream）.
	MQTypeNATS MQType = "nats"

	DefaultMQURL         = "localhost:4222"
	DefaultMaxReconnects = 5 // 默认最大重连次数
	DefaultReconnectWait = 5 // 默认重连等待时间（秒）
	DefaultMQClientID    = "coursevault-app"

	// JetStream 流配置常量.

	DefaultStreamMaxMsgs  = 1000000            // 默认流最大消息数
	DefaultStreamMaxBytes = 1024 * 1024 * 1024 // 默认流最大字节数 (1GB)

	// gochannel 配置常量.

	DefaultChannelBuffer = 256 // 默认输出通道缓冲
)

// MQConfig 消息队列配置.
type MQConfig struct {
	Type MQType `mapstructure:"type" rule:"oneof=channel nats"`
	// Enabled 关闭时不初始化 MQ，目录事件静默丢弃.
	Enabled bool            `mapstructure:"enabled"`
	Channel MQChannelConfig `mapstructure:"channel"`
	NATS    MQNATSConfig    `mapstructure:"nats"`
}

// MQChannelConfig 进程内 gochannel 配置.
type MQChannelConfig struct {
	OutputBuffer         int64 `mapstructure:"output_buffer"`
	Persistent           bool  `mapstructure:"persistent"`              // 为 true 时向新订阅者重放历史消息
	BlockPublishUntilAck bool  `mapstructure:"block_publish_until_ack"` // 发布阻塞直到订阅者确认
}

// MQNATSConfig NATS MQ 配置.
type MQNATSConfig struct {
	URL                    string `mapstructure:"url"                      rule:"hostname_port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	ClientID               string `mapstructure:"client_id"`
	MaxReconnects          int    `mapstructure:"max_reconnects"           rule:"min=0,max=100"`
	ReconnectWait          int    `mapstructure:"reconnect_wait"           rule:"min=1,max=300"`
	JetStreamEnabled       bool   `mapstructure:"jetstream_enabled"`
	JetStreamAutoProvision bool   `mapstructure:"jetstream_auto_provision"`
	JetStreamTrackMsgID    bool   `mapstructure:"jetstream_track_msg_id"`
	JetStreamAckAsync      bool   `mapstructure:"jetstream_ack_async"`
	JetStreamDurablePrefix string `mapstructure:"jetstream_durable_prefix"`
	StreamMaxMsgs          int64  `mapstructure:"stream_max_msgs"`
	StreamMaxBytes         int64  `mapstructure:"stream_max_bytes"`
}

// GetMQType 返回当前配置的消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置MQ配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeChannel)
	v.SetDefault("mq.enabled", true)

	// gochannel 默认值
	v.SetDefault("mq.channel.output_buffer", DefaultChannelBuffer)
	v.SetDefault("mq.channel.persistent", false)
	v.SetDefault("mq.channel.block_publish_until_ack", false)

	// NATS 默认值
	v.SetDefault("mq.nats.url", DefaultMQURL)
	v.SetDefault("mq.nats.user", "")
	v.SetDefault("mq.nats.password", "")
	v.SetDefault("mq.nats.client_id", DefaultMQClientID)
	v.SetDefault("mq.nats.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.nats.reconnect_wait", DefaultReconnectWait)
	v.SetDefault("mq.nats.jetstream_enabled", true)
	v.SetDefault("mq.nats.jetstream_auto_provision", true)
	v.SetDefault("mq.nats.jetstream_track_msg_id", true)
	v.SetDefault("mq.nats.jetstream_ack_async", true)
	v.SetDefault("mq.nats.jetstream_durable_prefix", "coursevault-durable")
	v.SetDefault("mq.nats.stream_max_msgs", DefaultStreamMaxMsgs)
	v.SetDefault("mq.nats.stream_max_bytes", DefaultStreamMaxBytes)
}
