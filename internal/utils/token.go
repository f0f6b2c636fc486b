package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal kinds embedded in tokens. Both kinds share one login surface.
const (
	PrincipalAdmin   = "admin"
	PrincipalPartner = "partner"
)

// Claims identify an authenticated principal. ReferenceCode is only set for
// partners.
type Claims struct {
	UserID        string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Type          string `json:"type"`
	ReferenceCode string `json:"reference_code,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs principal claims with a fixed expiry from now.
func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded principal claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}
