package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "usuario", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := Decode(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "usuario", claims.Role)
	assert.False(t, claims.IsRefresh())
	assert.Empty(t, claims.TokenID)
	assert.WithinDuration(t, tok.Exp, claims.ExpiresAt, time.Second)
}

func TestRefreshTokenCarriesTypeAndID(t *testing.T) {
	tok, err := NewRefreshToken(testSecret, 7, "admin", "token-id-123", 24*time.Hour)
	require.NoError(t, err)

	claims, err := Decode(testSecret, tok.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsRefresh())
	assert.Equal(t, "token-id-123", claims.TokenID)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestDecodeExpired(t *testing.T) {
	tok, err := NewRefreshToken(testSecret, 7, "usuario", "id", -time.Minute)
	require.NoError(t, err)

	_, err = Decode(testSecret, tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDecodeWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 1, "usuario", 5)
	require.NoError(t, err)

	_, err = Decode("another-secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(testSecret, "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
