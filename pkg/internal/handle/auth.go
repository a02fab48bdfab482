package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/auth"
	"github.com/yeisme/coursevault/pkg/configs"
	"github.com/yeisme/coursevault/pkg/internal/types"
	"github.com/yeisme/coursevault/pkg/log"
)

// Login 管理员登录，签发会话令牌.
//
//	@Summary		管理员登录
//	@Description	校验用户名与密码，成功时返回 JWT 会话令牌.
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.LoginRequest	true	"登录凭据"
//	@Success		200		{object}	types.LoginResponse	"登录成功"
//	@Failure		400		{object}	types.ErrorResponse	"请求体非法"
//	@Failure		401		{object}	types.ErrorResponse	"凭据错误"
//	@Failure		503		{object}	types.ErrorResponse	"未配置管理员凭据"
//	@Router			/api/auth/login [post]
func Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	cfg := configs.GetConfig()
	a := auth.New(&cfg.Auth)

	token, err := a.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotConfigured):
			log.Logger().Error().Msg("admin credentials not configured")
			c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "Authentication not configured"})
		default:
			log.Logger().Warn().Str("username", req.Username).Msg("login rejected")
			c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Invalid credentials"})
		}

		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{
		Token:     token,
		ExpiresIn: int(cfg.Auth.GetTokenTTL().Seconds()),
	})
}
