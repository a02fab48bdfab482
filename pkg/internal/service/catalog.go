// Package service 实现目录服务：上传、查询、下载与删除内容条目.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/yeisme/coursevault/pkg/cache"
	"github.com/yeisme/coursevault/pkg/configs"
	ctxPkg "github.com/yeisme/coursevault/pkg/context"
	"github.com/yeisme/coursevault/pkg/internal/model"
	"github.com/yeisme/coursevault/pkg/internal/storage/db"
	"github.com/yeisme/coursevault/pkg/internal/storage/filestore"
	"github.com/yeisme/coursevault/pkg/internal/storage/mq"
	"github.com/yeisme/coursevault/pkg/internal/types"
	nlog "github.com/yeisme/coursevault/pkg/log"
	"github.com/yeisme/coursevault/pkg/queue"
)

// 目录列表缓存键.
const (
	cacheKeyListAll    = "catalog:list:all"
	cacheKeyListPrefix = "catalog:list:"
)

// CatalogService 目录服务，聚合文件存储与元数据库.
type CatalogService struct {
	fsClient *filestore.Client
	dbClient *db.Client
	mqClient *mq.Client
	cache    *cache.Cache
	listTTL  time.Duration
	subjects configs.SubjectsConfig
}

// NewCatalogService 从 context 中取出存储客户端构造服务.
func NewCatalogService(c context.Context) *CatalogService {
	cfg := configs.GetConfig()

	var listCache *cache.Cache
	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		listCache = cache.NewCache(kvc.KVStore)
	}

	return &CatalogService{
		fsClient: ctxPkg.GetFileStoreClient(c),
		dbClient: ctxPkg.GetDBClient(c),
		mqClient: ctxPkg.GetMQClient(c),
		cache:    listCache,
		listTTL:  cfg.KV.GetListTTL(),
		subjects: cfg.Subjects,
	}
}

// validateMetadata 在服务边界做元数据校验，避免依赖上层绑定.
func (cs *CatalogService) validateMetadata(req *types.UploadContentRequest, fileName string) error {
	sem, err := strconv.Atoi(strings.TrimSpace(req.Semester))
	if err != nil || sem < configs.MinSemester || sem > configs.MaxSemester {
		return validationError("semester %q must be an integer in [%d,%d]",
			req.Semester, configs.MinSemester, configs.MaxSemester)
	}

	if strings.TrimSpace(req.Subject) == "" {
		return validationError("subject is required")
	}

	if !model.ValidContentType(req.ContentType) {
		return validationError("contentType %q is not one of %v", req.ContentType, model.ContentTypes)
	}

	if strings.TrimSpace(req.Title) == "" {
		return validationError("title is required")
	}

	if strings.TrimSpace(fileName) == "" {
		return validationError("file is required")
	}

	if cs.subjects.Strict && !cs.subjects.Contains(sem, req.Subject) {
		return validationError("subject %q is not offered in semester %d", req.Subject, sem)
	}

	return nil
}

// invalidateListCache 上传或删除后使目录列表缓存失效.
func (cs *CatalogService) invalidateListCache(ctx context.Context, semester, subject string) {
	if cs.cache == nil {
		return
	}

	keys := []string{
		cacheKeyListAll,
		cacheKeyListPrefix + "sem:" + semester,
		cacheKeyListPrefix + "sem:" + semester + ":sub:" + subject,
	}
	for _, k := range keys {
		if err := cs.cache.Delete(ctx, k); err != nil {
			nlog.Logger().Warn().Err(err).Str("key", k).Msg("invalidate list cache failed")
		}
	}
}

// publish 发布目录事件，MQ 关闭或失败时只记录日志.
func (cs *CatalogService) publish(ctx context.Context, topic string, payload any) {
	if cs.mqClient == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(topic, payload, queue.WithProducer("coursevault"))
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("encode event failed")
		return
	}

	if err := cs.mqClient.Publish(ctx, topic, msg); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

// contentRef 构造事件中使用的条目引用.
func contentRef(c *model.Content) queue.ContentRef {
	return queue.ContentRef{
		ID:          c.ID,
		Semester:    c.Semester,
		Subject:     c.Subject,
		ContentType: c.ContentType,
		StorageRef:  c.FilePath,
		Size:        c.FileSize,
		FileType:    c.FileType,
	}
}
