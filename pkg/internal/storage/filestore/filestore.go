// Package filestore 提供上传文件的物理存储抽象.
// 存储引用（ref）由 store 生成，保证并发上传不冲突；后端通过工厂注册，
// 支持本地磁盘（默认）与 S3/MinIO 对象存储.
//
// Example:
//
//	ctx := context.Background()
//	store, err := filestore.New(ctx, &cfg.FileStore)
//	if err != nil {
//	    // 处理错误
//	}
//
//	ref, n, err := store.Put(ctx, reader, size, "notes.pdf")
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yeisme/coursevault/pkg/configs"
)

// 存储层错误哨兵. 调用方用 errors.Is 区分失败类别.
var (
	// ErrNotFound 引用未解析到已存在的文件.
	ErrNotFound = errors.New("filestore: file not found")
	// ErrPayloadTooLarge 写入负载超过配置上限，未保留任何部分写入.
	ErrPayloadTooLarge = errors.New("filestore: payload too large")
	// ErrWrite 磁盘/对象存储写入失败（容量、权限、路径等）.
	ErrWrite = errors.New("filestore: write failed")
	// ErrRead 读取已存储文件失败.
	ErrRead = errors.New("filestore: read failed")
	// ErrBadRef 引用非法（路径穿越、空引用等）.
	ErrBadRef = errors.New("filestore: invalid storage ref")
)

// Entry 描述存储中的一个文件，用于遍历（孤儿清理等）.
type Entry struct {
	Ref     string
	Size    int64
	ModTime time.Time
}

// Store 文件存储接口.
type Store interface {
	// Put 写入文件内容，返回生成的存储引用与写入字节数.
	// size 为调用方声明的负载大小；超过配置上限时返回 ErrPayloadTooLarge，
	// 实际写入超限时清除部分写入后同样返回 ErrPayloadTooLarge.
	Put(ctx context.Context, r io.Reader, size int64, originalName string) (string, int64, error)
	// Open 按引用打开文件读取流，返回流与文件大小.
	Open(ctx context.Context, ref string) (io.ReadCloser, int64, error)
	// Delete 删除引用指向的文件；引用不存在时返回 ErrNotFound.
	Delete(ctx context.Context, ref string) error
	// List 遍历存储中的所有文件.
	List(ctx context.Context) ([]Entry, error)
	// Close 释放后端资源.
	Close() error
}

// Factory 定义创建 Store 的工厂函数类型.
type Factory func(ctx context.Context, cfg *configs.FileStoreConfig) (Store, error)

// factories 存储后端类型到工厂的映射.
var factories = make(map[configs.FileStoreType]Factory)

// RegisterFactory 注册文件存储工厂函数.
func RegisterFactory(t configs.FileStoreType, f Factory) {
	factories[t] = f
}

// GetRegisteredTypes 返回已注册的后端类型列表.
func GetRegisteredTypes() []configs.FileStoreType {
	types := make([]configs.FileStoreType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	return types
}

// Client 包装 Store，与 db/kv 客户端保持一致的使用方式.
type Client struct {
	Store
}

// New 根据配置创建文件存储客户端.
func New(ctx context.Context, cfg *configs.FileStoreConfig) (*Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported filestore type: %s", cfg.Type)
	}

	store, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init filestore (%s): %w", cfg.Type, err)
	}

	return &Client{Store: store}, nil
}
