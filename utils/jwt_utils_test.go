package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fomosite/api/models"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	admin := &models.Admin{ID: 7, Email: "admin@example.com"}
	token, err := GenerateJWT(admin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "fomosite-api", claims.Issuer)
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	admin := &models.Admin{ID: 1, Email: "admin@example.com"}
	token, err := GenerateJWT(admin)
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret-a")
	admin := &models.Admin{ID: 1, Email: "admin@example.com"}
	token, err := GenerateJWT(admin)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "secret-b")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}
