package auth_test

import (
	"testing"
	"time"

	"taskboard/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-key")

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := auth.GenerateToken(secret, "test-user-id", 24*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := auth.ParseToken(secret, token)

	assert.NoError(t, err)
	assert.Equal(t, "test-user-id", userID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(secret, "test-user-id", time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken([]byte("another-secret"), token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  error
	}{
		{
			name:  "garbage",
			token: "invalid-token",
			want:  auth.ErrInvalidToken,
		},
		{
			name: "expired",
			token: sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
				"user_id": "test-user-id",
				"exp":     time.Now().Add(-time.Hour).Unix(),
			}),
			want: auth.ErrInvalidToken,
		},
		{
			name:  "no expiry",
			token: sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"user_id": "test-user-id"}),
			want:  auth.ErrInvalidToken,
		},
		{
			name: "other hmac method",
			token: sign(t, jwt.SigningMethodHS512, secret, jwt.MapClaims{
				"user_id": "test-user-id",
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
			want: auth.ErrInvalidToken,
		},
		{
			name: "missing user id",
			token: sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			want: auth.ErrInvalidClaims,
		},
		{
			name: "user id is not a string",
			token: sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
				"user_id": 42,
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
			want: auth.ErrInvalidClaims,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.ParseToken(secret, tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
