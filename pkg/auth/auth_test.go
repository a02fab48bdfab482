package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/yeisme/coursevault/pkg/auth"
	"github.com/yeisme/coursevault/pkg/configs"
)

func newAuthenticator(t *testing.T) *auth.Authenticator {
	t.Helper()

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	cfg := &configs.AuthConfig{
		Enabled:           true,
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
		JWTSecret:         "test-signing-key",
		TokenTTLMinutes:   60,
	}

	return auth.New(cfg)
}

func TestLoginAndVerify(t *testing.T) {
	a := newAuthenticator(t)

	token, err := a.Login("admin", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := a.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.Username != "admin" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}

	if exp := claims.ExpiresAt.Time; time.Until(exp) > time.Hour || time.Until(exp) < 50*time.Minute {
		t.Errorf("unexpected expiry: %v", exp)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	a := newAuthenticator(t)

	if _, err := a.Login("admin", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}

	if _, err := a.Login("root", "s3cret"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong username: err = %v", err)
	}
}

func TestLoginNotConfigured(t *testing.T) {
	a := auth.New(&configs.AuthConfig{Enabled: true, AdminUsername: "admin"})

	if _, err := a.Login("admin", "anything"); !errors.Is(err, auth.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	a := newAuthenticator(t)

	token, err := a.Login("admin", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := a.Verify(token + "x"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("tampered token: err = %v", err)
	}

	// 另一个密钥签的令牌不可用
	other := auth.New(&configs.AuthConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: "$2a$10$invalidhashinvalidhashinvalidhashinvalidhashinvalidha",
		JWTSecret:         "other-key",
		TokenTTLMinutes:   60,
	})

	if _, err := other.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("cross-key token: err = %v", err)
	}
}
