package mq

import (
	"context"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/coursevault/pkg/configs"
)

// init 注册进程内 gochannel 工厂.
func init() {
	RegisterFactory(configs.MQTypeChannel, channelFactory)
}

// channelFactory 创建进程内 Publisher & Subscriber.
// gochannel 的 Publisher 与 Subscriber 是同一个实例，
// 消息只在本进程内流转，适合单机部署与测试.
func channelFactory(
	ctx context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	ps := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            cfg.Channel.OutputBuffer,
			Persistent:                     cfg.Channel.Persistent,
			BlockPublishUntilSubscriberAck: cfg.Channel.BlockPublishUntilAck,
		},
		logger,
	)

	return ps, ps, nil
}
