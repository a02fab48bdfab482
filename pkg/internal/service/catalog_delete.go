package service

import (
	"context"
	"fmt"

	"github.com/yeisme/coursevault/pkg/internal/model"
	nlog "github.com/yeisme/coursevault/pkg/log"
	"github.com/yeisme/coursevault/pkg/metrics"
	"github.com/yeisme/coursevault/pkg/queue"
)

// Delete 删除目录条目：先删行，再尽力删除文件.
// 文件删除失败不影响结果，由孤儿清理任务兜底回收.
func (cs *CatalogService) Delete(ctx context.Context, id uint) error {
	content, err := cs.GetByID(ctx, id)
	if err != nil {
		metrics.CatalogOperations.WithLabelValues("delete", "miss").Inc()
		return err
	}

	if err := cs.dbClient.WithContext(ctx).Delete(&model.Content{}, id).Error; err != nil {
		metrics.CatalogOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("%w: delete content %d: %v", ErrStore, id, err)
	}

	fileRemoved := true
	if err := cs.fsClient.Delete(ctx, content.FilePath); err != nil {
		fileRemoved = false

		nlog.Logger().Warn().Err(err).
			Uint("id", id).
			Str("ref", content.FilePath).
			Msg("file delete failed after row removal, sweep job will reclaim")
	}

	cs.invalidateListCache(ctx, content.Semester, content.Subject)

	cs.publish(ctx, queue.TopicContentDeleted, queue.ContentDeletedPayload{
		Content:     contentRef(content),
		FileRemoved: fileRemoved,
	})

	metrics.CatalogOperations.WithLabelValues("delete", "ok").Inc()

	nlog.Logger().Info().
		Uint("id", id).
		Str("ref", content.FilePath).
		Bool("file_removed", fileRemoved).
		Msg("content deleted")

	return nil
}
