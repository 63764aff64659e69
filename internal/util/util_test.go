package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateJWT(42, secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestParseJWTRejectsBadTokens(t *testing.T) {
	token, err := GenerateJWT(42, "right-secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	assert.Error(t, err)

	_, err = ParseJWT("not.a.token", "right-secret")
	assert.Error(t, err)
}

func TestParseJWTPinsSigningMethod(t *testing.T) {
	secret := "test-secret"

	// A token signed with another HMAC variant verifies against the
	// same secret, so only the method allowlist can reject it.
	claims := Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseJWT(forged, secret)
	assert.Error(t, err)
}

func TestParseJWTRejectsMissingUserID(t *testing.T) {
	secret := "test-secret"

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseJWT(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"bare token", "abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodGet, "/api/tasks", nil)
			require.NoError(t, err)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(r))
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2-but-longer", hash)

	assert.True(t, CheckPassword("hunter2-but-longer", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}
