package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
)

// TokenTTL is the fixed session lifetime. There is no revocation list: a
// token stays cryptographically valid until natural expiry, and liveness is
// re-checked against the actor record on every request instead.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the immutable signed bundle embedded in a session token. The
// permission snapshot only changes on reissue, never retroactively.
type Claims struct {
	UserID      string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Model       string   `json:"model"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given actor.
func GenerateToken(actor *models.AuthActor, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now()
	claims := &Claims{
		UserID:      actor.ID.Hex(),
		Email:       actor.Email,
		Name:        actor.Name,
		Role:        actor.Kind.Role(),
		Permissions: actor.Permissions,
		Model:       string(actor.Kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and verifies a token string, distinguishing expired
// tokens from malformed or tampered ones.
func ValidateToken(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Authentication("Token has expired")
		}
		return nil, apperr.Authentication("Invalid token")
	}
	if !token.Valid {
		return nil, apperr.Authentication("Invalid token")
	}
	return claims, nil
}
