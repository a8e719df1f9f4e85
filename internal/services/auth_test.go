package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthService_RoundTrip(t *testing.T) {
	auth := NewAuthService(testSecret, time.Hour, "careerspark")
	id := Identity{UserID: uuid.New(), Email: "jane@example.com"}

	token, err := auth.GenerateToken(id)
	require.NoError(t, err)

	got, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.True(t, got.Authenticated())
}

func TestAuthService_RejectsAnonymous(t *testing.T) {
	auth := NewAuthService(testSecret, time.Hour, "careerspark")
	_, err := auth.GenerateToken(Identity{})
	assert.Error(t, err)
}

func TestAuthService_ValidateToken(t *testing.T) {
	auth := NewAuthService(testSecret, time.Hour, "careerspark")

	sign := func(secret string, claims *Claims, method jwt.SigningMethod) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := func(subject string, expires time.Time) *Claims {
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
		}}
	}

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", "token string is empty"},
		{"garbage", "not-a-token", "malformed token"},
		{"wrong secret", sign("another-secret-another-secret-xx", valid(uuid.NewString(), time.Now().Add(time.Hour)), jwt.SigningMethodHS256), "invalid token signature"},
		{"expired", sign(testSecret, valid(uuid.NewString(), time.Now().Add(-time.Hour)), jwt.SigningMethodHS256), "token expired"},
		{"subject not a uuid", sign(testSecret, valid("user-1", time.Now().Add(time.Hour)), jwt.SigningMethodHS256), "token subject is not a user id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
