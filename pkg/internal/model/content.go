// Package model 定义内容目录的持久化模型.
package model

import (
	"time"
)

// ContentType 内容类型的封闭枚举.
// 原始数据中以字符串约定存在，这里收敛为显式集合并在服务边界校验.
type ContentType string

const (
	ContentTypeNotes        ContentType = "notes"
	ContentTypeModule       ContentType = "module"
	ContentTypeQuestionBank ContentType = "question-bank"
	ContentTypeModelPaper   ContentType = "model-paper"
)

// ContentTypes 所有合法的内容类型.
var ContentTypes = []ContentType{
	ContentTypeNotes,
	ContentTypeModule,
	ContentTypeQuestionBank,
	ContentTypeModelPaper,
}

// ValidContentType 判断内容类型是否合法.
func ValidContentType(s string) bool {
	for _, t := range ContentTypes {
		if string(t) == s {
			return true
		}
	}

	return false
}

// Content 目录条目模型：一条上传记录及其文件元数据.
// 创建后不可变，只能被删除；不存在更新操作.
type Content struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// 学期（1-8），为兼容历史数据以文本存储
	Semester string `gorm:"size:16;not null;index:idx_sem_sub"  json:"semester"`
	// 科目代码，如 PSC、DBMS
	Subject     string `gorm:"size:64;not null;index:idx_sem_sub"  json:"subject"`
	ContentType string `gorm:"size:32;not null;index;column:content_type" json:"content_type"`
	Title       string `gorm:"size:512;not null"                   json:"title"`
	Description string `gorm:"type:text"                           json:"description"`
	// 客户端提供的原始文件名，用于展示与下载命名
	FileName string `gorm:"size:512;not null;column:file_name" json:"file_name"`
	// 文件存储生成的引用（本地相对路径或对象键）
	FilePath string `gorm:"size:1024;not null;column:file_path" json:"file_path"`
	FileSize int64  `gorm:"column:file_size"                    json:"file_size"`
	// 客户端上报的 MIME 类型，仅作展示提示，不做安全判断
	FileType string `gorm:"size:255;column:file_type" json:"file_type"`
	// 服务端赋值的上传时间，创建后不变
	UploadDate time.Time `gorm:"autoCreateTime;index;column:upload_date" json:"upload_date"`
}

// TableName 保持与原始 SQLite 库一致的表名.
func (Content) TableName() string {
	return "content"
}
