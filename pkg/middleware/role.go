package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/configs"
)

// Role 表示请求方的角色（使用 iota 实现的枚举，数值越大权限越高）。
type Role int

const (
	// RoleAnonymous 未携带令牌的访客，只能读.
	RoleAnonymous Role = iota
	// RoleAdmin 管理员，可上传与删除.
	RoleAdmin
)

// String 返回角色的字符串表示。
func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}

	return "anonymous"
}

type roleKey struct{}

// parseRole 从令牌 Claims 的角色字段解析，未知值降级为访客。
func parseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), "admin") {
		return RoleAdmin
	}

	return RoleAnonymous
}

// setRole 将角色注入 gin.Context 与 request.Context，便于下游获取。
func setRole(c *gin.Context, r Role) {
	c.Set("role", r)

	ctx := context.WithValue(c.Request.Context(), roleKey{}, r)
	c.Request = c.Request.WithContext(ctx)
}

// GetRole 从 gin.Context 获取当前请求角色。
func GetRole(c *gin.Context) Role {
	if v, ok := c.Get("role"); ok {
		if r, ok2 := v.(Role); ok2 {
			return r
		}
	}
	// 回退到 request context
	if v := c.Request.Context().Value(roleKey{}); v != nil {
		if r, ok := v.(Role); ok {
			return r
		}
	}

	return RoleAnonymous
}

// RequireMinRole 要求最小角色：未认证返回 401，已认证但权限不足返回 403。
// 认证关闭时直接放行。
func RequireMinRole(conf configs.AuthConfig, minRole Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled {
			c.Next()
			return
		}

		r := GetRole(c)
		if r >= minRole {
			c.Next()
			return
		}

		if _, authenticated := c.Get("claims"); !authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
	}
}
