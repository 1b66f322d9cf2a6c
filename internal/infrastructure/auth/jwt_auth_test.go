package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashchat/pkg/errors"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyValidToken(t *testing.T) {
	svc := NewJWTAuthService(testSecret)

	token := signToken(t, jwt.MapClaims{"sub": "user-1"}, testSecret)
	identity, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity)
}

func TestVerifyLegacyIDClaim(t *testing.T) {
	svc := NewJWTAuthService(testSecret)

	token := signToken(t, jwt.MapClaims{"id": "user-2"}, testSecret)
	identity, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", identity)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	svc := NewJWTAuthService(testSecret)

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", signToken(t, jwt.MapClaims{"sub": "user-1"}, "other-secret")},
		{"expired", signToken(t, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}, testSecret)},
		{"no identity", signToken(t, jwt.MapClaims{"role": "admin"}, testSecret)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Verify(context.Background(), tc.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, "UNAUTHENTICATED"))
		})
	}
}
