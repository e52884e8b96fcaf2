package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", string(hash))
	assert.True(t, CheckPassword("s3cret-pass", string(hash)))
	assert.False(t, CheckPassword("wrong", string(hash)))
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.GenerateJWT("3f0e2c5e-8a4b-4c1d-9d2e-1b2c3d4e5f60", "User")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "3f0e2c5e-8a4b-4c1d-9d2e-1b2c3d4e5f60", claims.Subject)
	assert.Equal(t, "3f0e2c5e-8a4b-4c1d-9d2e-1b2c3d4e5f60", claims.UserID)
	assert.Equal(t, "User", claims.Role)
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour).GenerateJWT("id", "User")
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).ParseJWT(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.GenerateJWT("id", "User")
	require.NoError(t, err)

	_, err = m.ParseJWT(token)
	assert.Error(t, err)
}

func TestCardCipherRoundTrip(t *testing.T) {
	c := NewCardCipher("0123456789abcdef")

	enc, err := c.Encrypt("4111111111111111")
	require.NoError(t, err)
	assert.NotContains(t, enc, "4111111111111111")

	plain, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", plain)

	_, err = c.Encrypt("")
	assert.Error(t, err)
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "1111", LastFour("4111111111111111"))
	assert.Equal(t, "12", LastFour("12"))
	assert.Equal(t, "**** **** **** 1111", MaskCardNumber("1111"))
}
