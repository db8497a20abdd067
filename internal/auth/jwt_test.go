package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testConfig() TokenConfig {
	return TokenConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "test"}
}

func TestCreateAndVerifyToken(t *testing.T) {
	tok, jti, err := CreateToken("user-1", "a@example.com", testConfig())
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if jti == "" {
		t.Fatalf("expected non-empty jti")
	}

	claims, err := VerifyToken(tok, testConfig())
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
	if claims.Email != "a@example.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}
	if claims.ID != jti {
		t.Fatalf("expected jti %q in claims, got %q", jti, claims.ID)
	}
}

func TestCreateToken_Validation(t *testing.T) {
	if _, _, err := CreateToken("", "e", testConfig()); err == nil {
		t.Fatalf("expected error for missing user id")
	}
	cfg := testConfig()
	cfg.Secret = ""
	if _, _, err := CreateToken("u", "e", cfg); err == nil {
		t.Fatalf("expected error for missing secret")
	}
	cfg = testConfig()
	cfg.Expiry = 0
	if _, _, err := CreateToken("u", "e", cfg); err == nil {
		t.Fatalf("expected error for invalid expiry")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	tok, _, err := CreateToken("user-1", "", testConfig())
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	cfg := testConfig()
	cfg.Secret = "other"
	if _, err := VerifyToken(tok, cfg); err == nil {
		t.Fatalf("expected verify failure with wrong secret")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.Expiry = time.Millisecond
	tok, _, err := CreateToken("user-1", "", cfg)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := VerifyToken(tok, cfg); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestShouldRefresh(t *testing.T) {
	now := time.Now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
	}}
	if !ShouldRefresh(claims, now) {
		t.Fatalf("token past midpoint should refresh")
	}

	claims = &Claims{RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
	}}
	if ShouldRefresh(claims, now) {
		t.Fatalf("fresh token should not refresh")
	}
}
