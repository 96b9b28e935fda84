package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func TestNewService(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	assert.NotNil(t, service)
	assert.Equal(t, testSecret, service.secret)
	assert.Equal(t, time.Hour, service.expiry)
}

func TestGenerateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateToken(42, "jamie@example.com", "Jamie Rivera", false)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the generated token
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jamie@example.com", claims.Email)
	assert.Equal(t, "Jamie Rivera", claims.Name)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "experiences-backend", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	t.Run("Admin Claim Round Trips", func(t *testing.T) {
		token, err := service.GenerateToken(1, "admin@example.com", "Admin", true)
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewService("a-completely-different-secret", time.Hour)
		token, err := other.GenerateToken(1, "a@example.com", "A", false)
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Expired Token", func(t *testing.T) {
		expired := NewService(testSecret, -time.Hour)
		token, err := expired.GenerateToken(1, "a@example.com", "A", false)
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		claims, err := service.ValidateToken("not.a.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestGetTokenExpiry(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateToken(1, "a@example.com", "A", false)
	require.NoError(t, err)

	expiry, err := service.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)
}
