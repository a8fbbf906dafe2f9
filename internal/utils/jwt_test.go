package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken(secret, "barista|1", []string{"get:drinks-detail", "post:drinks"}, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken(secret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "barista|1", claims.Subject)
	assert.True(t, claims.Has("post:drinks"))
	assert.False(t, claims.Has("delete:drinks"))
}

func TestParseAccessToken_Rejects(t *testing.T) {
	expired, err := NewAccessToken(secret, "x", nil, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, expired.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	good, err := NewAccessToken(secret, "x", nil, time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("other-secret", good.Token)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = ParseAccessToken(secret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "x"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, hs512)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
