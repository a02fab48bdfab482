package handle_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/coursevault/pkg/auth"
	"github.com/yeisme/coursevault/pkg/configs"
	"github.com/yeisme/coursevault/pkg/internal/model"
	"github.com/yeisme/coursevault/pkg/internal/router"
	"github.com/yeisme/coursevault/pkg/internal/storage"
	dbc "github.com/yeisme/coursevault/pkg/internal/storage/db"
	fsc "github.com/yeisme/coursevault/pkg/internal/storage/filestore"
	"github.com/yeisme/coursevault/pkg/middleware"
	"github.com/yeisme/coursevault/pkg/rule"
)

func init() {
	gin.SetMode(gin.TestMode)

	if err := rule.RegisterCatalogRules(); err != nil {
		panic(err)
	}
}

// newTestServer 构建带存储中间件与完整路由的测试引擎.
func newTestServer(t *testing.T, authCfg configs.AuthConfig) (*gin.Engine, *storage.Manager) {
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

	engine := gin.New()
	engine.Use(
		middleware.StorageMiddleware(mgr),
		middleware.AuthMiddleware(authCfg),
	)

	g := engine.Group("/api")
	router.RegisterContentRoutes(g, authCfg)
	router.RegisterAuthRoutes(g)
	router.RegisterSubjectRoutes(g)

	return engine, mgr
}

// multipartUpload 构造一个合法的上传请求体.
func multipartUpload(t *testing.T, fields map[string]string, fileName string, body []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}

	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}

		if _, err := fw.Write(body); err != nil {
			t.Fatalf("write file body: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"semester":    "5",
		"subject":     "DBMS",
		"contentType": "notes",
		"title":       "ER Diagrams",
		"description": "unit 2",
	}
}

func doUpload(t *testing.T, engine *gin.Engine, fields map[string]string, fileName string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	buf, ct := multipartUpload(t, fields, fileName, body)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", buf)
	req.Header.Set("Content-Type", ct)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func TestUploadEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, configs.AuthConfig{})

	w := doUpload(t, engine, validFields(), "er.pdf", []byte("diagram"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success  bool   `json:"success"`
		ID       uint   `json:"id"`
		Message  string `json:"message"`
		FileName string `json:"fileName"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !resp.Success || resp.ID == 0 || resp.FileName != "er.pdf" {
		t.Errorf("resp = %+v", resp)
	}

	if resp.Message != "Content uploaded successfully" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestUploadEndpointRejectsBadRequests(t *testing.T) {
	engine, _ := newTestServer(t, configs.AuthConfig{})

	t.Run("no file", func(t *testing.T) {
		w := doUpload(t, engine, validFields(), "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}

		if !strings.Contains(w.Body.String(), "No file uploaded") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("empty file", func(t *testing.T) {
		w := doUpload(t, engine, validFields(), "empty.pdf", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("bad semester", func(t *testing.T) {
		fields := validFields()
		fields["semester"] = "11"

		w := doUpload(t, engine, fields, "a.pdf", []byte("x"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("bad content type", func(t *testing.T) {
		fields := validFields()
		fields["contentType"] = "slides"

		w := doUpload(t, engine, fields, "a.pdf", []byte("x"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("oversize", func(t *testing.T) {
		w := doUpload(t, engine, validFields(), "big.bin", bytes.Repeat([]byte("a"), (1<<20)+1))
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
		}

		if !strings.Contains(w.Body.String(), "File too large") {
			t.Errorf("body = %s", w.Body.String())
		}
	})
}

func TestListEndpoints(t *testing.T) {
	engine, _ := newTestServer(t, configs.AuthConfig{})

	doUpload(t, engine, validFields(), "a.pdf", []byte("1"))

	other := validFields()
	other["semester"] = "3"
	other["subject"] = "OS"
	other["title"] = "Scheduling"
	doUpload(t, engine, other, "b.pdf", []byte("2"))

	get := func(path string) ([]model.Content, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		var rows []model.Content
		if w.Code == http.StatusOK {
			if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
				t.Fatalf("unmarshal %s: %v", path, err)
			}
		}

		return rows, w
	}

	rows, w := get("/api/content")
	if w.Code != http.StatusOK || len(rows) != 2 {
		t.Fatalf("GET /api/content: status = %d, rows = %d", w.Code, len(rows))
	}

	// 最新的在前
	if rows[0].Title != "Scheduling" {
		t.Errorf("rows[0].Title = %q, want newest first", rows[0].Title)
	}

	rows, w = get("/api/content/semester/3")
	if w.Code != http.StatusOK || len(rows) != 1 || rows[0].Subject != "OS" {
		t.Errorf("semester filter: status = %d, rows = %+v", w.Code, rows)
	}

	rows, w = get("/api/content/semester/5/subject/DBMS")
	if w.Code != http.StatusOK || len(rows) != 1 || rows[0].Title != "ER Diagrams" {
		t.Errorf("semester+subject filter: status = %d, rows = %+v", w.Code, rows)
	}

	rows, w = get("/api/content/semester/8")
	if w.Code != http.StatusOK || len(rows) != 0 {
		t.Errorf("empty semester: status = %d, rows = %d", w.Code, len(rows))
	}
}

func TestGroupedListEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, configs.AuthConfig{})

	doUpload(t, engine, validFields(), "a.pdf", []byte("1"))

	req := httptest.NewRequest(http.MethodGet, "/api/content?grouped=true", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var grouped map[string]map[string]map[string][]model.Content
	if err := json.Unmarshal(w.Body.Bytes(), &grouped); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(grouped["5"]["DBMS"]["notes"]) != 1 {
		t.Errorf("grouped = %+v", grouped)
	}
}

func TestDownloadEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, configs.AuthConfig{})

	body := []byte("%PDF-1.4 fake body")

	w := doUpload(t, engine, validFields(), "er.pdf", body)

	var resp struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal upload resp: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/file/%d", resp.ID), nil)
	dw := httptest.NewRecorder()
	engine.ServeHTTP(dw, req)

	if dw.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", dw.Code, dw.Body.String())
	}

	got, err := io.ReadAll(dw.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if !bytes.Equal(got, body) {
		t.Errorf("downloaded bytes differ from uploaded")
	}

	cd := dw.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="er.pdf"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestDownloadEndpointNonASCIIFilename(t *testing.T) {
	engine, _ := newTestServer(t, configs.AuthConfig{})

	w := doUpload(t, engine, validFields(), "数据库笔记.pdf", []byte("notes"))

	var resp struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal upload resp: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/file/%d", resp.ID), nil)
	dw := httptest.NewRecorder()
	engine.ServeHTTP(dw, req)

	if dw.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", dw.Code, dw.Body.String())
	}

	cd := dw.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "filename*=UTF-8''%E6%95%B0%E6%8D%AE%E5%BA%93%E7%AC%94%E8%AE%B0.pdf") {
		t.Errorf("Content-Disposition missing ext-value: %q", cd)
	}

	// filename 回退参数不得携带原始 UTF-8 字节
	if !strings.Contains(cd, `filename="_____.pdf"`) {
		t.Errorf("Content-Disposition fallback = %q", cd)
	}
}

func TestDownloadEndpointNotFound(t *testing.T) {
	engine, mgr := newTestServer(t, configs.AuthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/file/9999", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "File not found") {
		t.Errorf("unknown id: status = %d, body = %s", w.Code, w.Body.String())
	}

	// 行存在但文件已丢失
	uw := doUpload(t, engine, validFields(), "gone.pdf", []byte("x"))

	var resp struct {
		ID       uint   `json:"id"`
		FilePath string `json:"filePath"`
	}
	if err := json.Unmarshal(uw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if err := mgr.FileStore.Delete(context.Background(), resp.FilePath); err != nil {
		t.Fatalf("delete file: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/file/%d", resp.ID), nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "File not found on disk") {
		t.Errorf("missing file: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestDeleteEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, configs.AuthConfig{})

	w := doUpload(t, engine, validFields(), "a.pdf", []byte("x"))

	var resp struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/content/%d", resp.ID), nil)
	dw := httptest.NewRecorder()
	engine.ServeHTTP(dw, req)

	if dw.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", dw.Code, dw.Body.String())
	}

	if !strings.Contains(dw.Body.String(), "Content deleted successfully") {
		t.Errorf("body = %s", dw.Body.String())
	}

	// 再删一次应返回 404
	dw = httptest.NewRecorder()
	engine.ServeHTTP(dw, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/content/%d", resp.ID), nil))

	if dw.Code != http.StatusNotFound || !strings.Contains(dw.Body.String(), "Content not found") {
		t.Errorf("second delete: status = %d, body = %s", dw.Code, dw.Body.String())
	}

	// 非法 ID
	dw = httptest.NewRecorder()
	engine.ServeHTTP(dw, httptest.NewRequest(http.MethodDelete, "/api/content/abc", nil))

	if dw.Code != http.StatusBadRequest {
		t.Errorf("invalid id: status = %d", dw.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	authCfg := configs.AuthConfig{
		Enabled:           true,
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
		JWTSecret:         "test-signing-key",
		TokenTTLMinutes:   5,
	}

	engine, _ := newTestServer(t, authCfg)

	// 登录接口读取全局配置
	configs.GetConfig().Auth = authCfg
	t.Cleanup(func() { configs.GetConfig().Auth = configs.AuthConfig{} })

	// 未携带令牌
	w := doUpload(t, engine, validFields(), "a.pdf", []byte("x"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, body = %s", w.Code, w.Body.String())
	}

	// 非法令牌
	buf, ct := multipartUpload(t, validFields(), "a.pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", buf)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d", w.Code)
	}

	// 登录换取令牌
	loginBody := `{"username":"admin","password":"s3cret"}`
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")

	lw := httptest.NewRecorder()
	engine.ServeHTTP(lw, req)

	if lw.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", lw.Code, lw.Body.String())
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(lw.Body.Bytes(), &loginResp); err != nil || loginResp.Token == "" {
		t.Fatalf("login resp: %v, body = %s", err, lw.Body.String())
	}

	// 携带合法令牌后上传放行
	buf, ct = multipartUpload(t, validFields(), "a.pdf", []byte("x"))
	req = httptest.NewRequest(http.MethodPost, "/api/upload", buf)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("with token: status = %d, body = %s", w.Code, w.Body.String())
	}

	// 读取接口保持公开
	req = httptest.NewRequest(http.MethodGet, "/api/content", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("public read with auth on: status = %d", w.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("right")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	authCfg := configs.AuthConfig{
		Enabled:           true,
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
		JWTSecret:         "test-signing-key",
		TokenTTLMinutes:   5,
	}

	engine, _ := newTestServer(t, authCfg)

	configs.GetConfig().Auth = authCfg
	t.Cleanup(func() { configs.GetConfig().Auth = configs.AuthConfig{} })

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestSubjectsEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, configs.AuthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/subjects/3", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var subs []configs.Subject
	if err := json.Unmarshal(w.Body.Bytes(), &subs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(subs) == 0 {
		t.Error("semester 3 has no subjects")
	}

	// 非法学期
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/subjects/0", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid semester: status = %d", w.Code)
	}
}
