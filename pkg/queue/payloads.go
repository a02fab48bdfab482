package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// ContentRef 标识目录条目及其底层存储文件.
type ContentRef struct {
	ID          uint   `json:"id"`
	Semester    string `json:"semester"`
	Subject     string `json:"subject"`
	ContentType string `json:"content_type"`
	StorageRef  string `json:"storage_ref"` // 文件存储引用（生成的存储名）
	Size        int64  `json:"size,omitempty"`
	FileType    string `json:"file_type,omitempty"`
}

// ContentUploadedPayload 文件已写入存储且元数据入库.
type ContentUploadedPayload struct {
	Content ContentRef `json:"content"`
	// FileName 上传者提供的原始文件名.
	FileName string `json:"file_name,omitempty"`
	Title    string `json:"title,omitempty"`
}

// ContentDeletedPayload 目录条目已删除.
type ContentDeletedPayload struct {
	Content ContentRef `json:"content"`
	// FileRemoved 底层文件是否删除成功，失败的由后台清理任务回收.
	FileRemoved bool `json:"file_removed"`
}

// ContentAccessedPayload 文件被下载.
type ContentAccessedPayload struct {
	Content ContentRef `json:"content"`
}

// OrphanSweptPayload 孤儿文件清理结果.
type OrphanSweptPayload struct {
	// Scanned 本轮扫描的存储文件数.
	Scanned int `json:"scanned"`
	// Removed 被回收的孤儿文件引用.
	Removed []string `json:"removed,omitempty"`
}
