// Package api 汇总 HTTP 路由注册，供应用入口统一挂载.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/cache"
	"github.com/yeisme/coursevault/pkg/configs"
	"github.com/yeisme/coursevault/pkg/internal/router"
	"github.com/yeisme/coursevault/pkg/internal/storage"
	"github.com/yeisme/coursevault/pkg/middleware"
)

// RegisterGroup 注册内容目录相关的路由组到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine, manager *storage.Manager) *gin.Engine {
	cfg := configs.GetConfig()
	g := e.Group("/api")

	router.RegisterContentRoutes(g, cfg.Auth)
	router.RegisterAuthRoutes(g)
	router.RegisterHealthCheckRoute(g)

	// 学科目录是静态数据，KV 可用时挂 HTTP 缓存
	var subjectMWs []gin.HandlerFunc
	if manager != nil && manager.KV != nil {
		cacheCfg := middleware.DefaultCacheConfig(cache.NewCache(manager.KV))
		subjectMWs = append(subjectMWs, middleware.CacheMiddleware(cacheCfg))
	}
	router.RegisterSubjectRoutes(g, subjectMWs...)

	return e
}
