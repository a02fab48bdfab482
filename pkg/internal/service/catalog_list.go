package service

import (
	"context"
	"fmt"

	"github.com/yeisme/coursevault/pkg/cache"
	"github.com/yeisme/coursevault/pkg/internal/model"
	"github.com/yeisme/coursevault/pkg/internal/types"
	"github.com/yeisme/coursevault/pkg/metrics"
)

// 最新的在前，同一时刻按 id 倒序保证稳定.
const listOrder = "upload_date DESC, id DESC"

// List 返回全部目录条目.
func (cs *CatalogService) List(ctx context.Context) ([]model.Content, error) {
	return cs.cachedList(ctx, cacheKeyListAll, func() ([]model.Content, error) {
		var rows []model.Content

		err := cs.dbClient.WithContext(ctx).Order(listOrder).Find(&rows).Error

		return rows, err
	})
}

// ListBySemester 返回指定学期的条目.
func (cs *CatalogService) ListBySemester(ctx context.Context, semester string) ([]model.Content, error) {
	key := cacheKeyListPrefix + "sem:" + semester

	return cs.cachedList(ctx, key, func() ([]model.Content, error) {
		var rows []model.Content

		err := cs.dbClient.WithContext(ctx).
			Where("semester = ?", semester).
			Order(listOrder).
			Find(&rows).Error

		return rows, err
	})
}

// ListBySemesterAndSubject 返回指定学期与科目的条目.
func (cs *CatalogService) ListBySemesterAndSubject(ctx context.Context, semester, subject string) ([]model.Content, error) {
	key := cacheKeyListPrefix + "sem:" + semester + ":sub:" + subject

	return cs.cachedList(ctx, key, func() ([]model.Content, error) {
		var rows []model.Content

		err := cs.dbClient.WithContext(ctx).
			Where("semester = ? AND subject = ?", semester, subject).
			Order(listOrder).
			Find(&rows).Error

		return rows, err
	})
}

// GetByID 按主键查询条目.
func (cs *CatalogService) GetByID(ctx context.Context, id uint) (*model.Content, error) {
	var content model.Content

	err := cs.dbClient.WithContext(ctx).First(&content, id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrContentNotFound
		}

		return nil, fmt.Errorf("%w: get content %d: %v", ErrStore, id, err)
	}

	return &content, nil
}

// GroupedList 返回分组视图：学期 -> 科目 -> 内容类型 -> 条目（组内保持最新在前）.
func (cs *CatalogService) GroupedList(ctx context.Context) (types.GroupedContent, error) {
	rows, err := cs.List(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(types.GroupedContent)

	for _, row := range rows {
		bySubject, ok := grouped[row.Semester]
		if !ok {
			bySubject = make(map[string]map[string][]model.Content)
			grouped[row.Semester] = bySubject
		}

		byType, ok := bySubject[row.Subject]
		if !ok {
			byType = make(map[string][]model.Content)
			bySubject[row.Subject] = byType
		}

		byType[row.ContentType] = append(byType[row.ContentType], row)
	}

	return grouped, nil
}

// cachedList 经过 KV 缓存的列表查询.
func (cs *CatalogService) cachedList(ctx context.Context, key string, load func() ([]model.Content, error)) ([]model.Content, error) {
	if cs.cache == nil || cs.listTTL <= 0 {
		rows, err := load()
		if err != nil {
			metrics.CatalogOperations.WithLabelValues("list", "error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}

		metrics.CatalogOperations.WithLabelValues("list", "ok").Inc()

		return rows, nil
	}

	rows, err := cache.GetOrSet(ctx, cs.cache, key, load, cs.listTTL)
	if err != nil {
		metrics.CatalogOperations.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	metrics.CatalogOperations.WithLabelValues("list", "ok").Inc()

	if rows == nil {
		rows = []model.Content{}
	}

	return rows, nil
}
