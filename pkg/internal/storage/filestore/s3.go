package filestore

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/oklog/ulid"

	"github.com/yeisme/coursevault/pkg/configs"
	nlog "github.com/yeisme/coursevault/pkg/log"
)

// S3Store 基于 MinIO/S3 的文件存储后端.
// 引用即对象键，生成规则与本地后端一致（ULID+扩展名）.
type S3Store struct {
	client  *minio.Client
	bucket  string
	maxSize int64
}

// NewS3Store 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func NewS3Store(ctx context.Context, cfg *configs.FileStoreConfig) (Store, error) {
	s3cfg := cfg.S3

	endpoint := s3cfg.Endpoint
	useSSL := s3cfg.UseSSL
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: s3cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("coursevault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, s3cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", s3cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, s3cfg.BucketName, minio.MakeBucketOptions{Region: s3cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", s3cfg.BucketName, err)
		}
	}

	nlog.Logger().Info().Str("endpoint", s3cfg.Endpoint).Str("bucket", s3cfg.BucketName).Msg("s3 filestore ready")

	return &S3Store{client: cli, bucket: s3cfg.BucketName, maxSize: cfg.MaxUploadSize}, nil
}

func (s *S3Store) newRef(originalName string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), crand.Reader)
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))

	return id.String() + ext
}

func (s *S3Store) checkRef(ref string) error {
	if ref == "" || strings.Contains(ref, "/") || strings.Contains(ref, "..") {
		return fmt.Errorf("%w: %q", ErrBadRef, ref)
	}

	return nil
}

// Put 上传对象.
func (s *S3Store) Put(ctx context.Context, r io.Reader, size int64, originalName string) (string, int64, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", 0, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrPayloadTooLarge, size, s.maxSize)
	}

	ref := s.newRef(originalName)

	info, err := s.client.PutObject(ctx, s.bucket, ref, r, size, minio.PutObjectOptions{})
	if err != nil {
		return "", 0, fmt.Errorf("%w: put %s: %v", ErrWrite, ref, err)
	}

	return ref, info.Size, nil
}

// Open 获取对象读取流与大小.
func (s *S3Store) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	if err := s.checkRef(ref); err != nil {
		return nil, 0, err
	}

	// StatObject 先行，区分 NotFound 与读取错误
	stat, err := s.client.StatObject(ctx, s.bucket, ref, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}

		return nil, 0, fmt.Errorf("%w: stat %s: %v", ErrRead, ref, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: get %s: %v", ErrRead, ref, err)
	}

	return obj, stat.Size, nil
}

// Delete 删除对象.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if err := s.checkRef(ref); err != nil {
		return err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, ref, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, ref)
		}

		return fmt.Errorf("%w: stat %s: %v", ErrRead, ref, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrWrite, ref, err)
	}

	return nil
}

// List 遍历 bucket 内的所有对象.
func (s *S3Store) List(ctx context.Context) ([]Entry, error) {
	entries := make([]Entry, 0)

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: list objects: %v", ErrRead, obj.Err)
		}

		entries = append(entries, Entry{
			Ref:     obj.Key,
			Size:    obj.Size,
			ModTime: obj.LastModified,
		})
	}

	return entries, nil
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (s *S3Store) Close() error {
	return nil
}

// isNoSuchKey 判断 minio 错误是否为对象不存在.
func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.StatusCode == 404
	}

	return false
}

func init() {
	RegisterFactory(configs.FileStoreS3, NewS3Store)
}
