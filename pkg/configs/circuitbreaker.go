package configs

import "github.com/spf13/viper"

// 熔断默认值：存储后端（数据库/对象存储）抖动时快速失败，避免把下载请求堆在慢盘上.
const (
	DefaultCBEnabled           = false
	DefaultCBFailureRate       = 0.6
	DefaultCBMinRequests       = 10
	DefaultCBIntervalSeconds   = 30
	DefaultCBTimeoutSeconds    = 20
	DefaultCBMaxRequestsInHalf = 3
)

// CircuitBreakerConfig 熔断器配置.
type CircuitBreakerConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	FailureRate       float64 `mapstructure:"failure_rate"`         // 触发熔断的失败比例 [0,1]
	MinRequests       uint32  `mapstructure:"min_requests"`         // 窗口内参与统计的最小请求数
	IntervalSeconds   int     `mapstructure:"interval_seconds"`     // 统计窗口长度
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`      // 熔断打开后到半开的等待时间
	MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"` // 半开时放行的探测请求数
}

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuit_breaker.enabled", DefaultCBEnabled)
	v.SetDefault("circuit_breaker.failure_rate", DefaultCBFailureRate)
	v.SetDefault("circuit_breaker.min_requests", DefaultCBMinRequests)
	v.SetDefault("circuit_breaker.interval_seconds", DefaultCBIntervalSeconds)
	v.SetDefault("circuit_breaker.timeout_seconds", DefaultCBTimeoutSeconds)
	v.SetDefault("circuit_breaker.max_requests_in_half", DefaultCBMaxRequestsInHalf)
}
