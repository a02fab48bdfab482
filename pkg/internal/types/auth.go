package types

// LoginRequest 管理员登录请求.
type LoginRequest struct {
	Username string `json:"username" rule:"required,max=64"`
	Password string `json:"password" rule:"required,max=128"`
}

// LoginResponse 登录成功响应，令牌以 Bearer 方式携带.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // 秒
}
