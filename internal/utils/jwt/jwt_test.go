package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndExtract(t *testing.T) {
	token, err := CreateToken("42", "secret")
	require.NoError(t, err)

	userID, err := ExtractUserIDFromToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestExtract_WrongSecret(t *testing.T) {
	token, err := CreateToken("42", "secret")
	require.NoError(t, err)

	_, err = ExtractUserIDFromToken(token, "other")
	assert.Error(t, err)
}

func TestExtract_Expired(t *testing.T) {
	claims := Claims{
		UserID: "42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ExtractUserIDFromToken(token, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestExtract_MissingUserID(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ExtractUserIDFromToken(token, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtract_Garbage(t *testing.T) {
	_, err := ExtractUserIDFromToken("not-a-token", "secret")
	assert.Error(t, err)
}
