// Package auth 提供管理员凭据校验与 JWT 会话令牌的签发/验证.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeisme/coursevault/pkg/configs"
)

var (
	// ErrInvalidCredentials 用户名或密码不匹配.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken 令牌缺失、过期或签名不合法.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrNotConfigured 未配置密码哈希或签名密钥，拒绝所有登录.
	ErrNotConfigured = errors.New("auth: admin credentials not configured")
)

// Claims JWT 负载.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator 负责登录校验与令牌签发.
type Authenticator struct {
	cfg *configs.AuthConfig
}

// New 创建 Authenticator.
func New(cfg *configs.AuthConfig) *Authenticator {
	return &Authenticator{cfg: cfg}
}

// Login 校验用户名与密码，成功时签发会话令牌.
func (a *Authenticator) Login(username, password string) (string, error) {
	if a.cfg.AdminPasswordHash == "" || a.cfg.JWTSecret == "" {
		return "", ErrNotConfigured
	}

	if username != a.cfg.AdminUsername {
		// 仍然执行一次 bcrypt 比较，避免通过时延探测用户名
		_ = bcrypt.CompareHashAndPassword([]byte(a.cfg.AdminPasswordHash), []byte(password))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return a.issue(username)
}

// issue 签发 HS256 令牌.
func (a *Authenticator) issue(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "coursevault",
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.GetTokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify 验证令牌并返回 Claims.
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	if a.cfg.JWTSecret == "" {
		return nil, ErrNotConfigured
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// HashPassword 生成 bcrypt 哈希，供 CLI 初始化管理员密码.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}
