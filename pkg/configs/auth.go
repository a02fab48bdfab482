package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAuthEnabled     = true
	DefaultTokenTTLMinutes = 720 // 会话令牌有效期（分钟）
	DefaultAdminUsername   = "admin"
)

// AuthConfig 管理员认证配置.
// 凭据校验通过签发 JWT 会话令牌完成，上传/删除等管理操作要求携带有效令牌.
// AdminPasswordHash 为 bcrypt 哈希；留空时认证中间件拒绝所有管理操作.
type AuthConfig struct {
	Enabled           bool     `mapstructure:"enabled"`             // 开启认证校验
	AdminUsername     string   `mapstructure:"admin_username"`      // 管理员用户名
	AdminPasswordHash string   `mapstructure:"admin_password_hash"` // 管理员密码的 bcrypt 哈希
	JWTSecret         string   `mapstructure:"jwt_secret"`          // 令牌签名密钥
	TokenTTLMinutes   int      `mapstructure:"token_ttl_minutes"`   // 令牌有效期（分钟）
	SkipPaths         []string `mapstructure:"skip_paths"`          // 跳过认证的路径前缀
}

// GetTokenTTL 返回令牌有效期.
func (c *AuthConfig) GetTokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", DefaultAuthEnabled)
	v.SetDefault("auth.admin_username", DefaultAdminUsername)
	v.SetDefault("auth.admin_password_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_minutes", DefaultTokenTTLMinutes)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/health",
		"/swagger",
	})
}
