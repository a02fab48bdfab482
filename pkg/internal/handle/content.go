package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/internal/service"
	"github.com/yeisme/coursevault/pkg/internal/types"
	"github.com/yeisme/coursevault/pkg/log"
)

// UploadContent 上传一个内容条目（multipart 表单，文件字段名为 file）.
//
//	@Summary		上传内容
//	@Description	上传一份学习资料：multipart 表单携带 semester、subject、contentType、title、description 与文件字段 file.
//	@Tags			内容目录
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			semester	formData	string	true	"学期（1-8）"
//	@Param			subject		formData	string	true	"科目代码"
//	@Param			contentType	formData	string	true	"内容类型（notes/module/question-bank/model-paper）"
//	@Param			title		formData	string	true	"标题"
//	@Param			description	formData	string	false	"描述"
//	@Param			file		formData	file	true	"上传文件"
//	@Success		200	{object}	types.UploadContentResponse	"上传成功"
//	@Failure		400	{object}	types.ErrorResponse			"参数校验失败"
//	@Failure		413	{object}	types.ErrorResponse			"文件超过大小上限"
//	@Failure		500	{object}	types.ErrorResponse			"服务器内部错误"
//	@Router			/api/upload [post]
func UploadContent(c *gin.Context) {
	l := log.Logger()

	var req types.UploadContentRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid upload metadata")
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})

		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn().Err(err).Msg("upload missing file field")
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "No file uploaded"})

		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Msg("open uploaded file")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to read uploaded file"})

		return
	}
	defer func() { _ = src.Close() }()

	svc := service.NewCatalogService(c.Request.Context())

	content, err := svc.Upload(c.Request.Context(), &req,
		fileHeader.Filename, src, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		l.Warn().Err(err).Str("file", fileHeader.Filename).Msg("upload failed")
		respondServiceError(c, err, "Content not found", "Failed to upload content")

		return
	}

	c.JSON(http.StatusOK, types.UploadContentResponse{
		Success:    true,
		ID:         content.ID,
		Message:    "Content uploaded successfully",
		FilePath:   content.FilePath,
		FileName:   content.FileName,
		FileExists: true,
	})
}

// ListContent 返回全部内容条目，最新的在前；grouped=true 时返回分组视图.
//
//	@Summary		内容列表
//	@Description	返回全部内容条目（按上传时间倒序）.传入 grouped=true 时按 学期->科目->内容类型 分组返回.
//	@Tags			内容目录
//	@Produce		json
//	@Param			grouped	query		bool	false	"是否分组返回"
//	@Success		200		{array}		model.Content		"条目列表"
//	@Failure		500		{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/content [get]
func ListContent(c *gin.Context) {
	svc := service.NewCatalogService(c.Request.Context())

	if c.Query("grouped") == "true" {
		grouped, err := svc.GroupedList(c.Request.Context())
		if err != nil {
			log.Logger().Error().Err(err).Msg("grouped list failed")
			respondServiceError(c, err, "Content not found", "Failed to fetch content")

			return
		}

		c.JSON(http.StatusOK, grouped)

		return
	}

	rows, err := svc.List(c.Request.Context())
	if err != nil {
		log.Logger().Error().Err(err).Msg("list content failed")
		respondServiceError(c, err, "Content not found", "Failed to fetch content")

		return
	}

	c.JSON(http.StatusOK, rows)
}

// ListContentBySemester 返回指定学期的条目.
//
//	@Summary		按学期筛选
//	@Tags			内容目录
//	@Produce		json
//	@Param			semester	path		string	true	"学期（1-8）"
//	@Success		200			{array}		model.Content		"条目列表"
//	@Failure		500			{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/content/semester/{semester} [get]
func ListContentBySemester(c *gin.Context) {
	svc := service.NewCatalogService(c.Request.Context())

	rows, err := svc.ListBySemester(c.Request.Context(), c.Param("semester"))
	if err != nil {
		log.Logger().Error().Err(err).Str("semester", c.Param("semester")).Msg("list by semester failed")
		respondServiceError(c, err, "Content not found", "Failed to fetch content")

		return
	}

	c.JSON(http.StatusOK, rows)
}

// ListContentBySemesterSubject 返回指定学期与科目的条目.
//
//	@Summary		按学期与科目筛选
//	@Tags			内容目录
//	@Produce		json
//	@Param			semester	path		string	true	"学期（1-8）"
//	@Param			subject		path		string	true	"科目代码"
//	@Success		200			{array}		model.Content		"条目列表"
//	@Failure		500			{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/content/semester/{semester}/subject/{subject} [get]
func ListContentBySemesterSubject(c *gin.Context) {
	svc := service.NewCatalogService(c.Request.Context())

	rows, err := svc.ListBySemesterAndSubject(c.Request.Context(),
		c.Param("semester"), c.Param("subject"))
	if err != nil {
		log.Logger().Error().Err(err).Msg("list by semester/subject failed")
		respondServiceError(c, err, "Content not found", "Failed to fetch content")

		return
	}

	c.JSON(http.StatusOK, rows)
}

// DeleteContent 删除内容条目（管理操作，需认证）.
//
//	@Summary		删除内容
//	@Description	先删除目录行，再尽力删除底层文件；文件删除失败不影响结果.
//	@Tags			内容目录
//	@Produce		json
//	@Param			id	path		int	true	"条目 ID"
//	@Success		200	{object}	types.DeleteContentResponse	"删除成功"
//	@Failure		400	{object}	types.ErrorResponse			"ID 非法"
//	@Failure		404	{object}	types.ErrorResponse			"条目不存在"
//	@Failure		500	{object}	types.ErrorResponse			"服务器内部错误"
//	@Security		BearerAuth
//	@Router			/api/content/{id} [delete]
func DeleteContent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid content id"})
		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), uint(id)); err != nil {
		log.Logger().Warn().Err(err).Uint64("id", id).Msg("delete content failed")
		respondServiceError(c, err, "Content not found", "Failed to delete content")

		return
	}

	c.JSON(http.StatusOK, types.DeleteContentResponse{
		Success: true,
		Message: "Content deleted successfully",
	})
}
