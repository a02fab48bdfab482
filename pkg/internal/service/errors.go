package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 服务层错误分类，HTTP 层据此映射状态码.
var (
	// ErrValidation 请求元数据校验失败.
	ErrValidation = errors.New("validation failed")
	// ErrPayloadTooLarge 上传内容超过大小上限.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrStorageWrite 文件写入失败.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrStorageRead 文件读取失败.
	ErrStorageRead = errors.New("storage read failed")
	// ErrStore 目录数据库操作失败.
	ErrStore = errors.New("catalog store failed")
	// ErrNotFound 目标不存在.
	ErrNotFound = errors.New("not found")
)

// ErrNotFound 的两个细分：目录行不存在与文件本体不存在，
// 两者都满足 errors.Is(err, ErrNotFound)，但响应文案不同.
var (
	ErrContentNotFound = fmt.Errorf("content %w", ErrNotFound)
	ErrFileNotFound    = fmt.Errorf("file %w", ErrNotFound)
)

// validationError 构造带字段说明的校验错误.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
