package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yeisme/coursevault/pkg/internal/model"
	"github.com/yeisme/coursevault/pkg/internal/storage/filestore"
	"github.com/yeisme/coursevault/pkg/internal/types"
	nlog "github.com/yeisme/coursevault/pkg/log"
	"github.com/yeisme/coursevault/pkg/metrics"
	"github.com/yeisme/coursevault/pkg/queue"
)

// Upload 上传一个内容条目：先写文件存储，再写目录行.
// 入库失败时删除刚写入的文件，保证不会留下"有行无文件"或长期的"有文件无行".
func (cs *CatalogService) Upload(ctx context.Context, req *types.UploadContentRequest,
	fileName string, r io.Reader, size int64, mimeType string,
) (*model.Content, error) {
	if err := cs.validateMetadata(req, fileName); err != nil {
		metrics.CatalogOperations.WithLabelValues("upload", "invalid").Inc()
		return nil, err
	}

	if size <= 0 {
		metrics.CatalogOperations.WithLabelValues("upload", "invalid").Inc()
		return nil, validationError("file %q is empty", fileName)
	}

	ref, written, err := cs.fsClient.Put(ctx, r, size, fileName)
	if err != nil {
		metrics.CatalogOperations.WithLabelValues("upload", "error").Inc()

		if errors.Is(err, filestore.ErrPayloadTooLarge) {
			return nil, fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
		}

		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	content := &model.Content{
		Semester:    req.Semester,
		Subject:     req.Subject,
		ContentType: req.ContentType,
		Title:       req.Title,
		Description: req.Description,
		FileName:    fileName,
		FilePath:    ref,
		FileSize:    written,
		FileType:    mimeType,
	}

	if err := cs.dbClient.WithContext(ctx).Create(content).Error; err != nil {
		// 补偿：回收刚写入的文件，失败的交给孤儿清理任务
		if delErr := cs.fsClient.Delete(ctx, ref); delErr != nil {
			nlog.Logger().Warn().Err(delErr).Str("ref", ref).
				Msg("compensating file delete failed, sweep job will reclaim")
		}

		metrics.CatalogOperations.WithLabelValues("upload", "error").Inc()

		return nil, fmt.Errorf("%w: insert content: %v", ErrStore, err)
	}

	cs.invalidateListCache(ctx, content.Semester, content.Subject)

	cs.publish(ctx, queue.TopicContentUploaded, queue.ContentUploadedPayload{
		Content:  contentRef(content),
		FileName: fileName,
		Title:    content.Title,
	})

	metrics.CatalogOperations.WithLabelValues("upload", "ok").Inc()
	metrics.UploadBytes.Observe(float64(written))

	nlog.Logger().Info().
		Uint("id", content.ID).
		Str("semester", content.Semester).
		Str("subject", content.Subject).
		Str("content_type", content.ContentType).
		Int64("size", written).
		Msg("content uploaded")

	return content, nil
}
