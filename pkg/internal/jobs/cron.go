// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	ctxPkg "github.com/yeisme/coursevault/pkg/context"
	"github.com/yeisme/coursevault/pkg/internal/model"
	"github.com/yeisme/coursevault/pkg/internal/storage"
	"github.com/yeisme/coursevault/pkg/log"
	"github.com/yeisme/coursevault/pkg/metrics"
	"github.com/yeisme/coursevault/pkg/queue"
	"github.com/yeisme/coursevault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:20 清理孤儿文件（存储中存在但目录里没有对应行的文件）
//   - 每小时刷新目录统计日志
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于任务内使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	// 每天 03:20 清理孤儿文件
	if err := sched.AddCron(JobOrphanSweepNightly, CronOrphanSweepNightly, func(ctx context.Context) {
		runOrphanSweep(ctx, mgr)
	}, baseCtx); err != nil {
		return fmt.Errorf("register %s: %w", JobOrphanSweepNightly, err)
	}

	// 每小时输出目录统计
	if err := sched.AddCron(JobCatalogStatsHourly, CronCatalogStatsHourly, func(ctx context.Context) {
		runCatalogStats(ctx, mgr)
	}, baseCtx); err != nil {
		return fmt.Errorf("register %s: %w", JobCatalogStatsHourly, err)
	}

	return nil
}

// runOrphanSweep 回收孤儿文件：上传补偿删除失败或行删后文件删除失败留下的文件。
// 只处理修改时间早于宽限期的文件，正在进行的上传不受影响。
func runOrphanSweep(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobOrphanSweepNightly).Logger()

	entries, err := mgr.FileStore.List(ctx)
	if err != nil {
		l.Error().Err(err).Msg("list stored files failed")
		return
	}

	cutoff := time.Now().Add(-orphanGraceHours * time.Hour)
	removed := make([]string, 0)

	for _, entry := range entries {
		if entry.ModTime.After(cutoff) {
			continue
		}

		var count int64
		if err := mgr.DB.WithContext(ctx).
			Model(&model.Content{}).
			Where("file_path = ?", entry.Ref).
			Count(&count).Error; err != nil {
			l.Error().Err(err).Str("ref", entry.Ref).Msg("lookup catalog row failed")
			continue
		}

		if count > 0 {
			continue
		}

		if err := mgr.FileStore.Delete(ctx, entry.Ref); err != nil {
			l.Warn().Err(err).Str("ref", entry.Ref).Msg("remove orphan file failed")
			continue
		}

		removed = append(removed, entry.Ref)
		metrics.OrphanFilesSwept.Inc()
	}

	if len(removed) > 0 {
		l.Info().Int("scanned", len(entries)).Strs("removed", removed).Msg("orphan files swept")

		if mq := mgr.GetMQClient(); mq != nil {
			msg, err := queue.NewWatermillMessage(queue.TopicOrphanSwept, queue.OrphanSweptPayload{
				Scanned: len(entries),
				Removed: removed,
			}, queue.WithProducer("coursevault"))
			if err == nil {
				if err := mq.Publish(ctx, queue.TopicOrphanSwept, msg); err != nil {
					l.Warn().Err(err).Msg("publish sweep event failed")
				}
			}
		}
	}
}

// runCatalogStats 输出目录规模统计，便于观察增长趋势。
func runCatalogStats(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobCatalogStatsHourly).Logger()

	var total int64
	if err := mgr.DB.WithContext(ctx).Model(&model.Content{}).Count(&total).Error; err != nil {
		l.Error().Err(err).Msg("count catalog rows failed")
		return
	}

	type semCount struct {
		Semester string
		N        int64
	}

	var bySemester []semCount
	if err := mgr.DB.WithContext(ctx).
		Model(&model.Content{}).
		Select("semester, count(*) as n").
		Group("semester").
		Scan(&bySemester).Error; err != nil {
		l.Error().Err(err).Msg("count by semester failed")
		return
	}

	ev := l.Info().Int64("total", total)
	for _, sc := range bySemester {
		ev = ev.Int64("semester_"+sc.Semester, sc.N)
	}

	ev.Msg("catalog stats")
}
