package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"hashchat/internal/domain/service"
	"hashchat/pkg/errors"
)

type jwtAuthService struct {
	secret []byte
}

// NewJWTAuthService builds an AuthService validating HMAC-signed tokens.
// The user identity is taken from the "sub" claim, falling back to "id"
// for tokens minted by older issuers.
func NewJWTAuthService(secret string) service.AuthService {
	return &jwtAuthService{secret: []byte(secret)}
}

func (s *jwtAuthService) Verify(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.Unauthenticated("Missing credentials", nil)
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.Unauthenticated("Invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.Unauthenticated("Invalid token claims", nil)
	}

	if sub, _ := claims["sub"].(string); sub != "" {
		return sub, nil
	}
	if id, _ := claims["id"].(string); id != "" {
		return id, nil
	}

	return "", errors.Unauthenticated("Token carries no identity", nil)
}
