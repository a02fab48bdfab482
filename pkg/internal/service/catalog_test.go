package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/coursevault/pkg/configs"
	ctxPkg "github.com/yeisme/coursevault/pkg/context"
	"github.com/yeisme/coursevault/pkg/internal/model"
	"github.com/yeisme/coursevault/pkg/internal/service"
	"github.com/yeisme/coursevault/pkg/internal/storage"
	dbc "github.com/yeisme/coursevault/pkg/internal/storage/db"
	fsc "github.com/yeisme/coursevault/pkg/internal/storage/filestore"
	"github.com/yeisme/coursevault/pkg/internal/types"
)

type testEnv struct {
	ctx context.Context
	svc *service.CatalogService
	db  *gorm.DB
	fs  fsc.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
		filepath.Join(t.TempDir(), "catalog.db"))

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(&model.Content{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := fsc.NewLocalStore(context.Background(), &configs.FileStoreConfig{
		Type:          configs.FileStoreLocal,
		MaxUploadSize: 1 << 20,
		Local:         configs.LocalFileStoreConfig{Root: t.TempDir()},
	})
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}

	mgr := &storage.Manager{
		DB:        &dbc.Client{DB: gdb},
		FileStore: &fsc.Client{Store: store},
	}

	ctx := ctxPkg.WithStorageManager(context.Background(), mgr)

	return &testEnv{
		ctx: ctx,
		svc: service.NewCatalogService(ctx),
		db:  gdb,
		fs:  store,
	}
}

func validUpload(title string) *types.UploadContentRequest {
	return &types.UploadContentRequest{
		Semester:    "5",
		Subject:     "CS501",
		ContentType: "notes",
		Title:       title,
		Description: "lecture notes",
	}
}

func (e *testEnv) mustUpload(t *testing.T, title, fileName string, body []byte) *model.Content {
	t.Helper()

	content, err := e.svc.Upload(e.ctx, validUpload(title), fileName,
		bytes.NewReader(body), int64(len(body)), "application/pdf")
	if err != nil {
		t.Fatalf("Upload(%s): %v", title, err)
	}

	return content
}

func TestUploadAndRetrieveRoundtrip(t *testing.T) {
	env := newTestEnv(t)
	body := []byte("chapter one: signals and systems")

	content := env.mustUpload(t, "DSP Notes", "dsp.pdf", body)

	if content.ID == 0 {
		t.Fatal("uploaded content has zero id")
	}

	if content.FileSize != int64(len(body)) {
		t.Errorf("FileSize = %d, want %d", content.FileSize, len(body))
	}

	got, rc, size, err := env.svc.RetrieveFile(env.ctx, content.ID)
	if err != nil {
		t.Fatalf("RetrieveFile: %v", err)
	}
	defer rc.Close()

	if got.FileName != "dsp.pdf" || got.FileType != "application/pdf" {
		t.Errorf("metadata = %q/%q", got.FileName, got.FileType)
	}

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	if size != int64(len(body)) || !bytes.Equal(data, body) {
		t.Errorf("retrieved bytes differ from uploaded")
	}
}

func TestUploadValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		req  *types.UploadContentRequest
		file string
	}{
		{"bad semester", &types.UploadContentRequest{Semester: "9", Subject: "CS501", ContentType: "notes", Title: "t"}, "a.pdf"},
		{"non-numeric semester", &types.UploadContentRequest{Semester: "one", Subject: "CS501", ContentType: "notes", Title: "t"}, "a.pdf"},
		{"unknown content type", &types.UploadContentRequest{Semester: "5", Subject: "CS501", ContentType: "slides", Title: "t"}, "a.pdf"},
		{"missing subject", &types.UploadContentRequest{Semester: "5", ContentType: "notes", Title: "t"}, "a.pdf"},
		{"missing title", &types.UploadContentRequest{Semester: "5", Subject: "CS501", ContentType: "notes"}, "a.pdf"},
		{"missing file", validUpload("t"), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Upload(env.ctx, tc.req, tc.file, strings.NewReader("x"), 1, "")
			if !errors.Is(err, service.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	// 校验失败不应写入任何文件或行
	entries, err := env.fs.List(env.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("validation failure left %d file(s)", len(entries))
	}
}

func TestUploadEmptyFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Upload(env.ctx, validUpload("empty"), "empty.pdf",
		bytes.NewReader(nil), 0, "application/pdf")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	entries, err := env.fs.List(env.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("empty upload left %d file(s)", len(entries))
	}

	var count int64
	if err := env.db.Model(&model.Content{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 0 {
		t.Errorf("empty upload created %d row(s)", count)
	}
}

func TestUploadTooLarge(t *testing.T) {
	env := newTestEnv(t)
	big := bytes.Repeat([]byte("a"), (1<<20)+1)

	_, err := env.svc.Upload(env.ctx, validUpload("big"), "big.bin",
		bytes.NewReader(big), int64(len(big)), "application/octet-stream")
	if !errors.Is(err, service.ErrPayloadTooLarge) {
		t.Fatalf("err = %v, want ErrPayloadTooLarge", err)
	}

	var count int64
	if err := env.db.Model(&model.Content{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 0 {
		t.Errorf("oversize upload created %d row(s)", count)
	}
}

func TestUploadInsertFailureCompensates(t *testing.T) {
	env := newTestEnv(t)

	// 模拟入库失败
	if err := env.db.Exec("DROP TABLE content").Error; err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := env.svc.Upload(env.ctx, validUpload("doomed"), "doomed.pdf",
		strings.NewReader("payload"), 7, "application/pdf")
	if !errors.Is(err, service.ErrStore) {
		t.Fatalf("err = %v, want ErrStore", err)
	}

	// 补偿删除后存储中不应留下文件
	entries, listErr := env.fs.List(env.ctx)
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}

	if len(entries) != 0 {
		t.Errorf("failed insert left %d file(s) in storage", len(entries))
	}
}

func TestListNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	first := env.mustUpload(t, "first", "a.pdf", []byte("1"))
	second := env.mustUpload(t, "second", "b.pdf", []byte("2"))
	third := env.mustUpload(t, "third", "c.pdf", []byte("3"))

	rows, err := env.svc.List(env.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("List = %d rows, want 3", len(rows))
	}

	if rows[0].ID != third.ID || rows[1].ID != second.ID || rows[2].ID != first.ID {
		t.Errorf("order = [%d %d %d], want newest first [%d %d %d]",
			rows[0].ID, rows[1].ID, rows[2].ID, third.ID, second.ID, first.ID)
	}
}

func TestListBySemesterAndSubject(t *testing.T) {
	env := newTestEnv(t)

	env.mustUpload(t, "sem5 cs", "a.pdf", []byte("1"))

	reqOther := &types.UploadContentRequest{
		Semester: "3", Subject: "M301", ContentType: "module", Title: "sem3 math",
	}
	if _, err := env.svc.Upload(env.ctx, reqOther, "m.pdf", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	bySem, err := env.svc.ListBySemester(env.ctx, "3")
	if err != nil {
		t.Fatalf("ListBySemester: %v", err)
	}

	if len(bySem) != 1 || bySem[0].Title != "sem3 math" {
		t.Errorf("ListBySemester(3) = %+v", bySem)
	}

	bySub, err := env.svc.ListBySemesterAndSubject(env.ctx, "5", "CS501")
	if err != nil {
		t.Fatalf("ListBySemesterAndSubject: %v", err)
	}

	if len(bySub) != 1 || bySub[0].Title != "sem5 cs" {
		t.Errorf("ListBySemesterAndSubject(5, CS501) = %+v", bySub)
	}

	empty, err := env.svc.ListBySemester(env.ctx, "8")
	if err != nil {
		t.Fatalf("ListBySemester(8): %v", err)
	}

	if len(empty) != 0 {
		t.Errorf("ListBySemester(8) = %d rows, want 0", len(empty))
	}
}

func TestGroupedListEachEntryOnce(t *testing.T) {
	env := newTestEnv(t)

	env.mustUpload(t, "n1", "a.pdf", []byte("1"))
	env.mustUpload(t, "n2", "b.pdf", []byte("2"))

	reqQB := &types.UploadContentRequest{
		Semester: "5", Subject: "CS501", ContentType: "question-bank", Title: "qb",
	}
	if _, err := env.svc.Upload(env.ctx, reqQB, "q.pdf", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	grouped, err := env.svc.GroupedList(env.ctx)
	if err != nil {
		t.Fatalf("GroupedList: %v", err)
	}

	total := 0
	for _, bySubject := range grouped {
		for _, byType := range bySubject {
			for _, items := range byType {
				total += len(items)
			}
		}
	}

	if total != 3 {
		t.Errorf("grouped total = %d, want 3", total)
	}

	if got := len(grouped["5"]["CS501"]["notes"]); got != 2 {
		t.Errorf("notes group = %d entries, want 2", got)
	}

	if got := len(grouped["5"]["CS501"]["question-bank"]); got != 1 {
		t.Errorf("question-bank group = %d entries, want 1", got)
	}
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	env := newTestEnv(t)

	content := env.mustUpload(t, "victim", "v.pdf", []byte("bye"))

	if err := env.svc.Delete(env.ctx, content.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := env.svc.GetByID(env.ctx, content.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("GetByID after delete: err = %v, want ErrNotFound", err)
	}

	entries, err := env.fs.List(env.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("delete left %d file(s)", len(entries))
	}

	if err := env.svc.Delete(env.ctx, content.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSurvivesMissingFile(t *testing.T) {
	env := newTestEnv(t)

	content := env.mustUpload(t, "ghost", "g.pdf", []byte("data"))

	// 文件先被外部删掉，行删除仍应成功
	if err := env.fs.Delete(env.ctx, content.FilePath); err != nil {
		t.Fatalf("pre-delete file: %v", err)
	}

	if err := env.svc.Delete(env.ctx, content.ID); err != nil {
		t.Fatalf("Delete with missing file: %v", err)
	}

	if _, err := env.svc.GetByID(env.ctx, content.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("row survived delete: err = %v", err)
	}
}

func TestRetrieveFileMissingOnDisk(t *testing.T) {
	env := newTestEnv(t)

	content := env.mustUpload(t, "lost", "l.pdf", []byte("data"))

	if err := env.fs.Delete(env.ctx, content.FilePath); err != nil {
		t.Fatalf("delete file: %v", err)
	}

	_, _, _, err := env.svc.RetrieveFile(env.ctx, content.ID)
	if !errors.Is(err, service.ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}

func TestRetrieveFileUnknownID(t *testing.T) {
	env := newTestEnv(t)

	_, _, _, err := env.svc.RetrieveFile(env.ctx, 9999)
	if !errors.Is(err, service.ErrContentNotFound) {
		t.Fatalf("err = %v, want ErrContentNotFound", err)
	}
}

func TestConcurrentUploadsUniqueRefs(t *testing.T) {
	env := newTestEnv(t)

	const n = 8

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		refs = make(map[string]struct{})
		ids  = make(map[uint]struct{})
	)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			body := fmt.Sprintf("payload-%d", i)

			content, err := env.svc.Upload(env.ctx, validUpload(fmt.Sprintf("c%d", i)),
				"same.pdf", strings.NewReader(body), int64(len(body)), "application/pdf")
			if err != nil {
				t.Errorf("Upload #%d: %v", i, err)
				return
			}

			mu.Lock()
			refs[content.FilePath] = struct{}{}
			ids[content.ID] = struct{}{}
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	if len(refs) != n || len(ids) != n {
		t.Errorf("unique refs = %d, ids = %d, want %d", len(refs), len(ids), n)
	}
}
