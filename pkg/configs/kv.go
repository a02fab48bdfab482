package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultKVListTTLSeconds = 30 // 目录列表缓存的默认 TTL（秒）
)

// KVConfig 键值存储配置，用于目录查询结果的服务端缓存.
type KVConfig struct {
	Type  string        `mapstructure:"type"  rule:"oneof=memory redis"`
	Redis RedisKVConfig `mapstructure:"redis"`
	// ListTTLSeconds 目录列表响应的缓存有效期（秒），0 表示不缓存.
	ListTTLSeconds int `mapstructure:"list_ttl_seconds" rule:"min=0"`
}

// RedisKVConfig Redis KV 配置.
type RedisKVConfig struct {
	Addr     string `mapstructure:"addr"     rule:"hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

// GetKVType 返回当前配置的 KV 类型.
func (c *KVConfig) GetKVType() string {
	return c.Type
}

// GetListTTL 返回目录列表缓存 TTL.
func (c *KVConfig) GetListTTL() time.Duration {
	return time.Duration(c.ListTTLSeconds) * time.Second
}

// setDefaults 设置 KV 配置的默认值.
func (c *KVConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("kv.type", "memory")
	v.SetDefault("kv.list_ttl_seconds", DefaultKVListTTLSeconds)
	v.SetDefault("kv.redis.addr", "localhost:6379")
	v.SetDefault("kv.redis.password", "")
	v.SetDefault("kv.redis.db", 0)
}
