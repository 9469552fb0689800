package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")

	accessToken, refreshToken, err := GenerateJWT("507f1f77bcf86cd799439011", "a@b.com", "alice")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("expected non-empty token pair")
	}
	if accessToken == refreshToken {
		t.Error("access and refresh tokens should differ")
	}

	claims, err := ParseToken(accessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "507f1f77bcf86cd799439011")
	}
	if claims.Email != "a@b.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@b.com")
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
	if claims.ExpiresAt <= time.Now().Unix() {
		t.Error("access token already expired at issuance")
	}
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, _, err := GenerateJWT("id", "a@b.com", "alice"); err == nil {
		t.Error("expected error when JWT_SECRET is unset")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	accessToken, _, err := GenerateJWT("id", "a@b.com", "alice")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-two")
	if _, err := ParseToken(accessToken); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")

	accessToken, _, err := GenerateJWT("507f1f77bcf86cd799439011", "a@b.com", "alice")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	e := echo.New()
	var gotUserID string
	e.POST("/protected", func(c echo.Context) error {
		gotUserID, _ = c.Get("userId").(string)
		return c.NoContent(http.StatusOK)
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUserID != "507f1f77bcf86cd799439011" {
		t.Errorf("userId in context = %q, want %q", gotUserID, "507f1f77bcf86cd799439011")
	}
}

func TestJWTMiddlewareRejectsBlacklistedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")

	accessToken, _, err := GenerateJWT("507f1f77bcf86cd799439011", "a@b.com", "alice")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	BlacklistToken(accessToken, time.Now().Add(time.Hour))

	e := echo.New()
	handlerRan := false
	e.POST("/protected", func(c echo.Context) error {
		handlerRan = true
		return c.NoContent(http.StatusOK)
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	// A logged-out token must never reach the protected handler
	if handlerRan {
		t.Error("protected handler ran with a blacklisted token")
	}
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")

	e := echo.New()
	handlerRan := false
	e.POST("/protected", func(c echo.Context) error {
		handlerRan = true
		return c.NoContent(http.StatusOK)
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if handlerRan {
		t.Error("protected handler ran without a token")
	}
}

func TestTokenBlacklist(t *testing.T) {
	token := "some.jwt.token"

	if IsTokenBlacklisted(token) {
		t.Fatal("token blacklisted before being added")
	}

	BlacklistToken(token, time.Now().Add(time.Hour))

	if !IsTokenBlacklisted(token) {
		t.Error("token not blacklisted after being added")
	}
}
