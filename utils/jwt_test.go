package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator_RoundTrip(t *testing.T) {
	auth := NewJWTAuthenticator("0123456789abcdef", "houseshow", "houseshow-app", time.Hour)

	token, err := auth.GenerateToken("user-1", "host")
	require.NoError(t, err)

	userID, role, err := auth.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "host", role)
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	auth := NewJWTAuthenticator("0123456789abcdef", "houseshow", "houseshow-app", time.Hour)

	otherSecret, err := NewJWTAuthenticator("fedcba9876543210", "houseshow", "houseshow-app", time.Hour).GenerateToken("u", "host")
	require.NoError(t, err)
	otherAudience, err := NewJWTAuthenticator("0123456789abcdef", "houseshow", "someone-else", time.Hour).GenerateToken("u", "host")
	require.NoError(t, err)
	expired, err := NewJWTAuthenticator("0123456789abcdef", "houseshow", "houseshow-app", -time.Minute).GenerateToken("u", "host")
	require.NoError(t, err)

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iss": "houseshow",
		"aud": "houseshow-app",
	})
	missingRole, err := noRole.SignedString([]byte("0123456789abcdef"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret":   otherSecret,
		"wrong audience": otherAudience,
		"expired":        expired,
		"missing role":   missingRole,
		"garbage":        "not.a.token",
	} {
		_, _, err := auth.Subject(token)
		assert.Error(t, err, name)
	}
}
