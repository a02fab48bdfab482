// Package handle 提供请求处理器的实现，用于处理HTTP请求.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/internal/service"
	"github.com/yeisme/coursevault/pkg/internal/types"
)

// respondServiceError 将服务层错误映射为 HTTP 状态码与统一错误体.
// notFoundMsg 为 404 时返回的文案（不同路由文案不同）；
// fallbackMsg 为 500 时返回的文案，避免向客户端泄漏内部细节.
func respondServiceError(c *gin.Context, err error, notFoundMsg, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "File too large"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: notFoundMsg})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: fallbackMsg})
	}
}
