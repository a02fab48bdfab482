package configs

import "github.com/spf13/viper"

// 限流默认值：目录站以浏览与下载为主，按客户端 IP 限流即可.
const (
	DefaultRateLimitEnabled = false
	DefaultRateLimitRPS     = 30.0
	DefaultRateLimitBurst   = 60
	DefaultRateLimitKey     = "ip"
)

// RateLimitConfig 请求限流配置.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`   // 每秒放行的请求数
	Burst   int     `mapstructure:"burst"` // 令牌桶突发容量
	// Key 限流维度：global、ip、或 header:Header-Name 按指定请求头取键
	Key string `mapstructure:"key"`
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", DefaultRateLimitEnabled)
	v.SetDefault("rate_limit.rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("rate_limit.key", DefaultRateLimitKey)
}
