// Package storage 聚合目录服务依赖的存储资源：数据库、文件存储、消息队列与 KV 缓存.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	fsClient := mgr.GetFileStoreClient()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/coursevault/pkg/configs"
	dbc "github.com/yeisme/coursevault/pkg/internal/storage/db"
	fsc "github.com/yeisme/coursevault/pkg/internal/storage/filestore"
	kvc "github.com/yeisme/coursevault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/coursevault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/coursevault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB        *dbc.Client
	FileStore *fsc.Client
	MQ        *mqc.Client
	KV        *kvc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		dbi, e := dbc.New(ctx)
		if e != nil {
			err = e
			return
		}

		m.DB = dbi

		// 文件存储
		fsi, e := fsc.New(ctx, &cfg.FileStore)
		if e != nil {
			err = e
			return
		}

		m.FileStore = fsi

		// MQ（可关闭，关闭时目录事件静默丢弃）
		if cfg.MQ.Enabled {
			mqi, e := mqc.New(ctx)
			if e != nil {
				err = e
				return
			}

			m.MQ = mqi
		}

		// KV 缓存
		kvi, e := kvc.NewKVClient(ctx)
		if e != nil {
			err = e
			return
		}

		m.KV = kvi

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetFileStoreClient 获取文件存储客户端.
func (m *Manager) GetFileStoreClient() *fsc.Client {
	return m.FileStore
}

// GetMQClient 获取 MQ 客户端，MQ 关闭时返回 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// Close 释放所有存储资源.
func (m *Manager) Close() error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.FileStore != nil {
		if e := m.FileStore.Close(); e != nil {
			err = e
		}
	}

	if m.DB != nil {
		if sqlDB, e := m.DB.DB.DB(); e == nil {
			if e := sqlDB.Close(); e != nil {
				err = e
			}
		}
	}

	return err
}
