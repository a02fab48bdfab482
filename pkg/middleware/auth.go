package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/auth"
	"github.com/yeisme/coursevault/pkg/configs"
)

// AuthMiddleware 解析 Authorization: Bearer 令牌并注入角色上下文。
//   - 令牌合法时将 Claims 与对应角色写入 gin.Context
//   - 令牌缺失或非法不在此处拒绝，交由 RequireMinRole 在受保护路由上判定
//   - 支持通过配置跳过某些路径（如 /metrics, /health）.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	a := auth.New(&conf)

	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := a.Verify(token)
		if err != nil {
			// 携带了令牌但不合法，直接拒绝
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("claims", claims)
		setRole(c, parseRole(claims.Role))
		c.Next()
	}
}

// bearerToken 提取 Authorization 头中的 Bearer 令牌.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
