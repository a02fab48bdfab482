package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishContentUploaded 发布 cv.content.uploaded 事件。
// 文件写入存储并且元数据入库成功后调用，通知下游（缓存失效、统计等）。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishContentUploaded(pub message.Publisher, payload ContentUploadedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicContentUploaded, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicContentUploaded, msg)
}

// ParseContentUploaded 将 Watermill 消息解析为强类型 Envelope（ContentUploadedPayload）。
func ParseContentUploaded(msg *message.Message) (Message[ContentUploadedPayload], error) {
	return ParseWatermillMessage[ContentUploadedPayload](msg)
}

// PublishContentDeleted 发布 cv.content.deleted 事件。
// 目录行删除后调用；文件删除失败时 FileRemoved=false，由清理任务兜底。
func PublishContentDeleted(pub message.Publisher, payload ContentDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicContentDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicContentDeleted, msg)
}

// ParseContentDeleted 将 Watermill 消息解析为强类型 Envelope（ContentDeletedPayload）。
func ParseContentDeleted(msg *message.Message) (Message[ContentDeletedPayload], error) {
	return ParseWatermillMessage[ContentDeletedPayload](msg)
}

// PublishContentAccessed 发布 cv.content.accessed 事件。
func PublishContentAccessed(pub message.Publisher, payload ContentAccessedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicContentAccessed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicContentAccessed, msg)
}

// ParseContentAccessed 将 Watermill 消息解析为强类型 Envelope（ContentAccessedPayload）。
func ParseContentAccessed(msg *message.Message) (Message[ContentAccessedPayload], error) {
	return ParseWatermillMessage[ContentAccessedPayload](msg)
}

// PublishOrphanSwept 发布 cv.maintenance.orphan.swept 事件。
func PublishOrphanSwept(pub message.Publisher, payload OrphanSweptPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicOrphanSwept, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicOrphanSwept, msg)
}

// ParseOrphanSwept 将 Watermill 消息解析为强类型 Envelope（OrphanSweptPayload）。
func ParseOrphanSwept(msg *message.Message) (Message[OrphanSweptPayload], error) {
	return ParseWatermillMessage[OrphanSweptPayload](msg)
}
