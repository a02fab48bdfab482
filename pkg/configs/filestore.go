package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileStoreType 文件存储后端类型.
type FileStoreType string

const (
	FileStoreLocal FileStoreType = "local"
	FileStoreS3    FileStoreType = "s3"
)

const (
	DefaultFileStoreRoot = "uploads"          // 默认本地存储目录
	DefaultMaxUploadSize = 50 * 1024 * 1024   // 默认单文件上限（50 MiB）
	DefaultS3Endpoint    = "localhost:9000"   // 默认S3端点
	DefaultS3AccessKey   = "minioadmin"       // 默认访问密钥ID
	DefaultS3SecretKey   = "minioadmin"       // 默认秘密访问密钥
	DefaultS3UseSSL      = false              // 默认是否使用SSL
	DefaultS3BucketName  = "academic-content" // 默认存储桶名称
	DefaultS3Region      = "us-east-1"        // 默认区域
)

// FileStoreConfig 文件存储配置，按 type 选择后端.
type FileStoreConfig struct {
	Type FileStoreType `mapstructure:"type" rule:"oneof=local s3"`
	// MaxUploadSize 单文件大小上限（字节），上传超过该值直接拒绝.
	MaxUploadSize int64                `mapstructure:"max_upload_size" rule:"min=1"`
	Local         LocalFileStoreConfig `mapstructure:"local"`
	S3            S3FileStoreConfig    `mapstructure:"s3"`
}

// LocalFileStoreConfig 本地磁盘存储配置.
type LocalFileStoreConfig struct {
	Root string `mapstructure:"root"` // 上传文件根目录
}

// S3FileStoreConfig MinIO/S3 对象存储配置.
type S3FileStoreConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
}

// GetEndpointURL 获取完整的端点URL.
func (c *S3FileStoreConfig) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults 设置文件存储配置的默认值.
func (c *FileStoreConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("filestore.type", FileStoreLocal)
	v.SetDefault("filestore.max_upload_size", DefaultMaxUploadSize)
	v.SetDefault("filestore.local.root", DefaultFileStoreRoot)
	v.SetDefault("filestore.s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("filestore.s3.access_key_id", DefaultS3AccessKey)
	v.SetDefault("filestore.s3.secret_access_key", DefaultS3SecretKey)
	v.SetDefault("filestore.s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("filestore.s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("filestore.s3.region", DefaultS3Region)
}
