package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", "amani@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "amani@example.com", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestParseJWTRejects(t *testing.T) {
	expired, err := GenerateJWT("user-1", "", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, testSecret)
	assert.Error(t, err, "expired token")

	valid, err := GenerateJWT("user-1", "", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(valid, "another-secret-another-secret-xx")
	assert.Error(t, err, "wrong secret")

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := noSubject.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseJWT(signed, testSecret)
	assert.Error(t, err, "missing subject")

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	signed, err = hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseJWT(signed, testSecret)
	assert.Error(t, err, "unexpected signing method")

	_, err = ParseJWT("not-a-token", testSecret)
	assert.Error(t, err)
}

func TestAtoiOrZero(t *testing.T) {
	assert.Equal(t, 12, AtoiOrZero("12"))
	assert.Equal(t, 0, AtoiOrZero("twelve"))
	assert.Equal(t, 0, AtoiOrZero(""))
}
