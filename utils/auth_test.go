package utils

import (
	"os"
	"testing"

	"github.com/travelnest/travelnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Model: gorm.Model{ID: 42}, Email: "guest@example.com"}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	user := &models.User{Model: gorm.Model{ID: 7}, Email: "guest@example.com"}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	os.Setenv("JWT_SECRET", "different-secret")
	defer os.Setenv("JWT_SECRET", "test-secret")

	_, err = ValidateToken(token)
	assert.Error(t, err)
}
