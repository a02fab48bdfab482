package filestore

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid"

	"github.com/yeisme/coursevault/pkg/configs"
	nlog "github.com/yeisme/coursevault/pkg/log"
)

// LocalStore 基于本地磁盘的文件存储.
// 存储名由 ULID（毫秒时间戳+随机分量）加原始扩展名构成，
// 同一毫秒内的并发写入由随机分量保证不冲突.
type LocalStore struct {
	root    string
	maxSize int64
}

// NewLocalStore 创建本地磁盘存储，根目录不存在时创建.
func NewLocalStore(ctx context.Context, cfg *configs.FileStoreConfig) (Store, error) {
	root := cfg.Local.Root
	if root == "" {
		return nil, fmt.Errorf("%w: empty root directory", ErrWrite)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create root %s: %v", ErrWrite, root, err)
	}

	nlog.Logger().Info().Str("root", root).Int64("max_upload_size", cfg.MaxUploadSize).Msg("local filestore ready")

	return &LocalStore{root: root, maxSize: cfg.MaxUploadSize}, nil
}

// newRef 生成存储引用：ULID + 原始扩展名.
func (s *LocalStore) newRef(originalName string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), crand.Reader)

	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))

	return id.String() + ext
}

// resolve 将引用映射为磁盘路径，拒绝路径穿越.
func (s *LocalStore) resolve(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.Contains(ref, "..") {
		return "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}

	return filepath.Join(s.root, ref), nil
}

// Put 写入文件内容.
func (s *LocalStore) Put(ctx context.Context, r io.Reader, size int64, originalName string) (string, int64, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", 0, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrPayloadTooLarge, size, s.maxSize)
	}

	ref := s.newRef(originalName)

	path, err := s.resolve(ref)
	if err != nil {
		return "", 0, err
	}

	// O_EXCL：引用理论上不冲突，冲突时报写入错误而不是覆盖
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("%w: create %s: %v", ErrWrite, ref, err)
	}

	// 声明大小不可信时以上限+1截断读取，超限则清除已写内容
	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}

	n, err := io.Copy(f, src)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return "", 0, fmt.Errorf("%w: write %s: %v", ErrWrite, ref, err)
	}

	if s.maxSize > 0 && n > s.maxSize {
		_ = f.Close()
		_ = os.Remove(path)

		return "", 0, fmt.Errorf("%w: payload exceeds limit %d", ErrPayloadTooLarge, s.maxSize)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)

		return "", 0, fmt.Errorf("%w: close %s: %v", ErrWrite, ref, err)
	}

	return ref, n, nil
}

// Open 打开引用指向的文件.
func (s *LocalStore) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}

		return nil, 0, fmt.Errorf("%w: stat %s: %v", ErrRead, ref, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: open %s: %v", ErrRead, ref, err)
	}

	return f, info.Size(), nil
}

// Delete 删除引用指向的文件.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, ref)
		}

		return fmt.Errorf("%w: remove %s: %v", ErrWrite, ref, err)
	}

	return nil
}

// List 遍历根目录下的所有文件.
func (s *LocalStore) List(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: read dir: %v", ErrRead, err)
	}

	entries := make([]Entry, 0, len(dirEntries))

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Ref:     de.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return entries, nil
}

// Close 本地存储无需释放资源.
func (s *LocalStore) Close() error {
	return nil
}

func init() {
	RegisterFactory(configs.FileStoreLocal, NewLocalStore)
}
