// Package router 管理路由配置，用于设置HTTP服务的路由规则.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/configs"
	"github.com/yeisme/coursevault/pkg/internal/handle"
	"github.com/yeisme/coursevault/pkg/middleware"
)

// RegisterContentRoutes 注册内容目录路由.
// 上传与删除为管理操作，要求携带有效的管理员令牌；查询与下载公开.
func RegisterContentRoutes(g *gin.RouterGroup, authCfg configs.AuthConfig) {
	admin := middleware.RequireMinRole(authCfg, middleware.RoleAdmin)

	g.POST("/upload", admin, handle.UploadContent)

	contentRoutes := g.Group("/content")
	{
		contentRoutes.GET("", handle.ListContent)
		contentRoutes.GET("/semester/:semester", handle.ListContentBySemester)
		contentRoutes.GET("/semester/:semester/subject/:subject", handle.ListContentBySemesterSubject)
		contentRoutes.DELETE("/:id", admin, handle.DeleteContent)
	}

	g.GET("/file/:id", handle.DownloadFile)
}

// RegisterAuthRoutes 注册认证路由.
func RegisterAuthRoutes(g *gin.RouterGroup) {
	g.POST("/auth/login", handle.Login)
}

// RegisterSubjectRoutes 注册科目目录路由，可附加缓存等中间件.
func RegisterSubjectRoutes(g *gin.RouterGroup, mws ...gin.HandlerFunc) {
	subjectRoutes := g.Group("/subjects", mws...)
	{
		subjectRoutes.GET("", handle.ListSubjects)
		subjectRoutes.GET("/:semester", handle.ListSubjectsBySemester)
	}
}
