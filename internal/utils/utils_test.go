package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4) // minimal cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.True(t, VerifyPassword(hash, "s3cret"))
	require.False(t, VerifyPassword(hash, "wrong"))
	require.False(t, VerifyPassword("not-a-hash", "s3cret"))
}

func TestNewAccessTokenClaims(t *testing.T) {
	tok, err := NewAccessToken("test-secret", 42, "EMPLOYEE", "A", 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	parsed, err := jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.EqualValues(t, 42, claims["sub"])
	require.Equal(t, "EMPLOYEE", claims["role"])
	require.Equal(t, "A", claims["batch"])
}

func TestNewAccessTokenWrongSecretRejected(t *testing.T) {
	tok, err := NewAccessToken("test-secret", 42, "EMPLOYEE", "A", 7)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	require.Error(t, err)
}
