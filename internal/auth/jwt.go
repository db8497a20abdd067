package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

func DefaultTokenConfig(secret string) TokenConfig {
	return TokenConfig{
		Secret: secret,
		Expiry: 7 * 24 * time.Hour,
		Issuer: "epicsnap",
	}
}

// CreateToken mints a session token for the user and returns the signed
// token with its jti. The jti is persisted server-side so the session
// can be revoked before expiry.
func CreateToken(userID, email string, cfg TokenConfig) (token string, jti string, err error) {
	if cfg.Secret == "" {
		return "", "", errors.New("missing secret")
	}
	if userID == "" {
		return "", "", errors.New("missing userID")
	}
	if cfg.Expiry <= 0 {
		return "", "", errors.New("invalid expiry")
	}

	jtiBytes := make([]byte, 16)
	if _, err := rand.Read(jtiBytes); err != nil {
		return "", "", err
	}
	jti = hex.EncodeToString(jtiBytes)

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiry)),
			ID:        jti,
			Subject:   userID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func VerifyToken(tokenString string, cfg TokenConfig) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, errors.New("missing secret")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

// ShouldRefresh reports whether a token has passed the midpoint of its
// lifetime. The session guard rotates such tokens transparently.
func ShouldRefresh(claims *Claims, now time.Time) bool {
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return false
	}
	half := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time) / 2
	return now.After(claims.IssuedAt.Time.Add(half))
}
