// Package types 定义 HTTP 层的请求与响应结构.
package types

import "github.com/yeisme/coursevault/pkg/internal/model"

// UploadContentRequest 上传表单的元数据字段（multipart，文件字段名为 file）.
type UploadContentRequest struct {
	Semester    string `form:"semester"    json:"semester"    rule:"required,semester"`
	Subject     string `form:"subject"     json:"subject"     rule:"required,max=64"`
	ContentType string `form:"contentType" json:"contentType" rule:"required,content_type"`
	Title       string `form:"title"       json:"title"       rule:"required,max=512"`
	Description string `form:"description" json:"description" rule:"max=4096"`
}

// UploadContentResponse 上传成功响应，字段布局保持与历史客户端兼容.
type UploadContentResponse struct {
	Success    bool   `json:"success"`
	ID         uint   `json:"id"`
	Message    string `json:"message"`
	FilePath   string `json:"filePath"`
	FileName   string `json:"fileName"`
	FileExists bool   `json:"fileExists"`
}

// DeleteContentResponse 删除成功响应.
type DeleteContentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GroupedContent 目录分组视图：学期 -> 科目 -> 内容类型 -> 条目.
type GroupedContent map[string]map[string]map[string][]model.Content

// ErrorResponse 统一错误响应.
type ErrorResponse struct {
	Error string `json:"error"`
}
