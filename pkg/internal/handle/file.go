package handle

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/internal/service"
	"github.com/yeisme/coursevault/pkg/internal/types"
	"github.com/yeisme/coursevault/pkg/log"
)

// DownloadFile 按条目 ID 下载文件本体.
//
//	@Summary		下载文件
//	@Description	按条目 ID 返回文件流，Content-Disposition 使用上传时的原始文件名.
//	@Tags			文件
//	@Produce		application/octet-stream
//	@Param			id	path		int	true	"条目 ID"
//	@Success		200	{file}		file				"文件内容"
//	@Failure		400	{object}	types.ErrorResponse	"ID 非法"
//	@Failure		404	{object}	types.ErrorResponse	"条目或文件不存在"
//	@Failure		500	{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/file/{id} [get]
func DownloadFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid content id"})
		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	content, rc, size, err := svc.RetrieveFile(c.Request.Context(), uint(id))
	if err != nil {
		log.Logger().Warn().Err(err).Uint64("id", id).Msg("retrieve file failed")

		// 行不存在与文件丢失文案不同
		if errors.Is(err, service.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "File not found on disk"})
			return
		}

		respondServiceError(c, err, "File not found", "Failed to retrieve file")

		return
	}

	defer func() { _ = rc.Close() }()

	contentType := determineContentType(content.FileName, content.FileType)
	reader := io.Reader(rc)

	// 若仍未知类型，尝试读取前 512 字节进行嗅探
	if contentType == "application/octet-stream" {
		const sniffLen = 512

		buf := make([]byte, sniffLen)

		n, _ := io.ReadFull(rc, buf)
		if n > 0 {
			contentType = http.DetectContentType(buf[:n])
			reader = io.MultiReader(bytes.NewReader(buf[:n]), rc)
		}
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Length", strconv.FormatInt(size, 10))
	c.Header("Content-Disposition", contentDisposition(content.FileName))

	if _, err := io.Copy(c.Writer, reader); err != nil {
		log.Logger().Warn().Err(err).Uint64("id", id).Msg("stream file interrupted")
	}
}

// determineContentType 按扩展名推断 Content-Type，落空时回退到存储的展示类型.
// 不信任客户端上报的类型做安全判断，仅作展示提示.
func determineContentType(fileName, storedType string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}

	if storedType != "" {
		return storedType
	}

	return "application/octet-stream"
}

// contentDisposition 构造下载响应的 attachment 头.
// filename 参数始终是可安全引号包裹的 ASCII 回退名；
// 原始文件名含非 ASCII 字符时再附加 RFC 5987 的 filename* 参数.
func contentDisposition(name string) string {
	cd := `attachment; filename="` + sanitizeFileName(name) + `"`

	for i := 0; i < len(name); i++ {
		if name[i] >= 0x80 {
			return cd + "; filename*=UTF-8''" + rfc5987Encode(name)
		}
	}

	return cd
}

// sanitizeFileName 把引号、分号、控制字符与非 ASCII 字符替换为下划线.
func sanitizeFileName(s string) string {
	var b strings.Builder

	for _, r := range s {
		switch {
		case r == '"' || r == '\\' || r == ';':
			b.WriteByte('_')
		case r < 0x20 || r > 0x7e:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// rfc5987Encode 按 RFC 5987 的 attr-char 集合对 UTF-8 字节做百分号编码.
func rfc5987Encode(s string) string {
	const hexDigits = "0123456789ABCDEF"

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		}
	}

	return b.String()
}
