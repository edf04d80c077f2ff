package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withKey(t *testing.T, key string) {
	t.Helper()
	old := JwtKey
	JwtKey = []byte(key)
	t.Cleanup(func() { JwtKey = old })
}

func TestGenerateAndParseJWT(t *testing.T) {
	withKey(t, "test-secret")

	token, err := GenerateJWT("alice@example.com", "Alice")
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)

	lifetime := time.Unix(claims.ExpiresAt, 0).Sub(time.Unix(claims.IssuedAt, 0))
	assert.Equal(t, 365*24*time.Hour, lifetime)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	withKey(t, "one")
	token, err := GenerateJWT("alice@example.com", "")
	require.NoError(t, err)

	JwtKey = []byte("two")
	_, err = ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	withKey(t, "test-secret")

	claims := &Claims{
		Email: "alice@example.com",
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JwtKey)
	require.NoError(t, err)

	_, err = ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	withKey(t, "test-secret")

	_, err := ParseJWT("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
