package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yeisme/coursevault/pkg/configs"
)

func newTestStore(t *testing.T, maxSize int64) Store {
	t.Helper()

	cfg := &configs.FileStoreConfig{
		Type:          configs.FileStoreLocal,
		MaxUploadSize: maxSize,
		Local:         configs.LocalFileStoreConfig{Root: t.TempDir()},
	}

	s, err := NewLocalStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	return s
}

func TestLocalPutOpenRoundtrip(t *testing.T) {
	s := newTestStore(t, 1024)
	ctx := context.Background()

	payload := []byte("semester five notes body")

	ref, size, err := s.Put(ctx, bytes.NewReader(payload), int64(len(payload)), "dsp-notes.pdf")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if size != int64(len(payload)) {
		t.Fatalf("Put size = %d, want %d", size, len(payload))
	}

	if !strings.HasSuffix(ref, ".pdf") {
		t.Errorf("ref %q does not keep extension", ref)
	}

	rc, openSize, err := s.Open(ctx, ref)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	if openSize != int64(len(payload)) {
		t.Errorf("Open size = %d, want %d", openSize, len(payload))
	}

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: got %q want %q", got, payload)
	}
}

func TestLocalPutRefsUnique(t *testing.T) {
	s := newTestStore(t, 1024)
	ctx := context.Background()

	seen := make(map[string]struct{})

	for i := 0; i < 50; i++ {
		ref, _, err := s.Put(ctx, strings.NewReader("x"), 1, "same-name.txt")
		if err != nil {
			t.Fatalf("Put #%d: %v", i, err)
		}

		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate ref %q", ref)
		}

		seen[ref] = struct{}{}
	}
}

func TestLocalPutTooLarge(t *testing.T) {
	s := newTestStore(t, 8)
	ctx := context.Background()

	// 声明大小超限，直接拒绝
	_, _, err := s.Put(ctx, strings.NewReader("123456789"), 9, "big.bin")
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("declared oversize: err = %v, want ErrPayloadTooLarge", err)
	}

	// 声明大小撒谎，实际流超限也要拒绝，且不留下半截文件
	_, _, err = s.Put(ctx, strings.NewReader("0123456789abcdef"), 4, "liar.bin")
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("streamed oversize: err = %v, want ErrPayloadTooLarge", err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("rejected upload left %d file(s) behind", len(entries))
	}
}

func TestLocalOpenMissing(t *testing.T) {
	s := newTestStore(t, 1024)

	_, _, err := s.Open(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV.pdf")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open missing: err = %v, want ErrNotFound", err)
	}
}

func TestLocalDelete(t *testing.T) {
	s := newTestStore(t, 1024)
	ctx := context.Background()

	ref, _, err := s.Put(ctx, strings.NewReader("bye"), 3, "tmp.txt")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, _, err := s.Open(ctx, ref); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after delete: err = %v, want ErrNotFound", err)
	}

	if err := s.Delete(ctx, ref); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete twice: err = %v, want ErrNotFound", err)
	}
}

func TestLocalRefTraversalRejected(t *testing.T) {
	s := newTestStore(t, 1024)
	ctx := context.Background()

	for _, ref := range []string{"../etc/passwd", "a/b.txt", "..", ""} {
		if _, _, err := s.Open(ctx, ref); !errors.Is(err, ErrBadRef) {
			t.Errorf("Open(%q): err = %v, want ErrBadRef", ref, err)
		}

		if err := s.Delete(ctx, ref); !errors.Is(err, ErrBadRef) {
			t.Errorf("Delete(%q): err = %v, want ErrBadRef", ref, err)
		}
	}
}
