package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yeisme/coursevault/pkg/internal/model"
	"github.com/yeisme/coursevault/pkg/internal/storage/filestore"
	"github.com/yeisme/coursevault/pkg/metrics"
	"github.com/yeisme/coursevault/pkg/queue"
)

// RetrieveFile 按条目 ID 打开底层文件，返回元数据与读取流.
// 调用方负责关闭返回的 ReadCloser.
func (cs *CatalogService) RetrieveFile(ctx context.Context, id uint) (*model.Content, io.ReadCloser, int64, error) {
	content, err := cs.GetByID(ctx, id)
	if err != nil {
		metrics.CatalogOperations.WithLabelValues("retrieve", "miss").Inc()
		return nil, nil, 0, err
	}

	rc, size, err := cs.fsClient.Open(ctx, content.FilePath)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			// 行在而文件丢失，属于异常状态，单独成类便于上层定位
			metrics.CatalogOperations.WithLabelValues("retrieve", "miss").Inc()
			return content, nil, 0, ErrFileNotFound
		}

		metrics.CatalogOperations.WithLabelValues("retrieve", "error").Inc()

		return content, nil, 0, fmt.Errorf("%w: open %s: %v", ErrStorageRead, content.FilePath, err)
	}

	cs.publish(ctx, queue.TopicContentAccessed, queue.ContentAccessedPayload{
		Content: contentRef(content),
	})

	metrics.CatalogOperations.WithLabelValues("retrieve", "ok").Inc()

	return content, rc, size, nil
}
