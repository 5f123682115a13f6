package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken(42, "user")
	require.NoError(t, err)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := ParseAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateAccessToken(1, "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = ParseAccessToken(token)
	assert.Error(t, err)
}
