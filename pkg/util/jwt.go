package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token expired")
)

// SessionClaims are the claims carried by an embedded-app session token.
type SessionClaims struct {
	ShopDomain string `json:"shop"`
	jwt.RegisteredClaims
}

// GenerateSessionToken issues a signed session token for a shop after OAuth.
func GenerateSessionToken(shopDomain, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		ShopDomain: shopDomain,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   shopDomain,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken parses a session token and returns the shop domain it
// was issued for.
func ValidateSessionToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ShopDomain == "" {
		return "", ErrInvalidToken
	}
	return claims.ShopDomain, nil
}
